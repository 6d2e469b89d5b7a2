package igdb

type gameResponse struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug"`
	Cover            *coverResponse     `json:"cover"`
	Summary          string             `json:"summary"`
	TotalRating      float64            `json:"total_rating"`
	FirstReleaseDate *int64             `json:"first_release_date"`
	Platforms        []platformResponse `json:"platforms"`
	SimilarGames     []int64            `json:"similar_games"`
}

type coverResponse struct {
	ImageID string `json:"image_id"`
}

type platformResponse struct {
	Name string `json:"name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
