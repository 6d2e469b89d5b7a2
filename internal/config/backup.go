package config

import "github.com/spf13/viper"

// BackupConfig controls daily collection backups to a blob bucket.
type BackupConfig struct {
	Enabled       bool
	BucketURL     string // file://, mem:// or s3:// bucket URL
	RetentionDays int
}

func loadBackup(v *viper.Viper) BackupConfig {
	return BackupConfig{
		Enabled:       boolOrDefault(v, keyBackupEnabled, defaultBackupEnabled),
		BucketURL:     stringOrDefault(v, keyBackupBucketURL, defaultBackupBucketURL),
		RetentionDays: intOrDefault(v, keyBackupRetentionDays, defaultBackupRetentionDays),
	}
}
