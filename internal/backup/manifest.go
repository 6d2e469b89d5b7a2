package backup

import (
	"context"
	"encoding/json"
	"time"

	"gocloud.dev/blob"
)

// Manifest tracks which backups exist in the bucket.
type Manifest struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Retention   Retention       `json:"retention"`
	Collections CollectionsMeta `json:"collections"`
}

type Retention struct {
	CollectionsDays int `json:"collectionsDays"`
}

type CollectionsMeta struct {
	Dates         []string  `json:"dates"`
	LastRefreshed time.Time `json:"lastRefreshed"`
	LastCount     int       `json:"lastCount"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:   1,
		Retention: Retention{CollectionsDays: retentionDays},
		Collections: CollectionsMeta{
			Dates: []string{},
		},
	}
}

// readManifest falls back to an empty manifest when the object is missing or corrupt.
func readManifest(ctx context.Context, bucket *blob.Bucket, retentionDays int) (Manifest, error) {
	data, err := bucket.ReadAll(ctx, manifestKey)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return defaultManifest(retentionDays), err
	}
	if m.Collections.Dates == nil {
		m.Collections.Dates = []string{}
	}
	return m, nil
}

func writeManifest(ctx context.Context, bucket *blob.Bucket, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return bucket.WriteAll(ctx, manifestKey, data, &blob.WriterOptions{ContentType: "application/json"})
}
