package project

// Visibility is a project's shareable-link state.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Project is a persisted design record: a floor-plan image and,
// once generated, its 3D rendering.
type Project struct {
	ID            string `json:"id"`                      // client-generated, immutable
	Name          string `json:"name,omitempty"`
	SourceImage   string `json:"sourceImage"`             // inline data URL or hosted URL
	RenderedImage string `json:"renderedImage,omitempty"` // absent until a render completes
	SourcePath    string `json:"sourcePath,omitempty"`    // transient hosting hint, never persisted
	RenderedPath  string `json:"renderedPath,omitempty"`  // transient
	PublicPath    string `json:"publicPath,omitempty"`    // transient
	OwnerID       string `json:"ownerId,omitempty"`
	IsPublic      bool   `json:"isPublic"`
	Timestamp     int64  `json:"timestamp,omitempty"` // creation instant, ms since epoch
	UpdatedAt     string `json:"updatedAt,omitempty"` // server-stamped, RFC 3339
}
