package igdb

import "time"

const (
	providerName       = "igdb"
	defaultBaseURL     = "https://api.igdb.com/v4"
	defaultTokenURL    = "https://id.twitch.tv/oauth2/token"
	defaultHTTPTimeout = 10 * time.Second
	tokenExpiryMargin  = time.Minute
	// popularMinRatings filters out titles with too few ratings to rank meaningfully.
	popularMinRatings = 100
	releaseDateLayout = "Jan 2, 2006"
)

const gameFields = "name,slug,cover.image_id,summary,total_rating,first_release_date,platforms.name,similar_games"
