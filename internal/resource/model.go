package resource

// Resource is a catalog entry. The core reads it and denormalizes its title
// into enrollments at submission time; it never mutates this collection.
type Resource struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
	Color       string `bson:"color" json:"color"`
	Highlight   bool   `bson:"highlight" json:"highlight"`
	VideoURL    string `bson:"video_url,omitempty" json:"videoUrl,omitempty"`
	DownloadURL string `bson:"download_url,omitempty" json:"downloadUrl,omitempty"`
}
