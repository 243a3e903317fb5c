package export

// DateLayout is the format of the creation-date CSV cell.
const DateLayout = "2006-01-02"

// UnknownDate marks a repository whose creation date could not be determined.
const UnknownDate = "unknown"

// Repository is one row of the output report: a repository name and its
// creation date cell (DateLayout, or UnknownDate).
type Repository struct {
	Name         string `json:"name"`
	CreationDate string `json:"creation_date"`
}
