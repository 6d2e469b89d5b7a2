package backup

import "fmt"

const (
	collectionsPrefix = "collections/"
	manifestKey       = "manifest.json"
)

// CollectionKey builds the object key of the backup for a date (YYYY-MM-DD).
func CollectionKey(date string) string {
	return fmt.Sprintf("%s%s.json", collectionsPrefix, date)
}
