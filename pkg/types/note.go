package types

// Note is one stored version of a note: the content a (project, title)
// pair had at a specific timestamp. Versions are immutable; a new store
// always creates a new Note rather than rewriting an old one.
type Note struct {
	Project   string
	Title     string
	Content   string
	Timestamp string // ISO-8601 with microseconds, colons restored
	Path      string // Absolute path of the backing file
}

// NoteRef locates a stored version without carrying its content.
// Used to enumerate the store cheaply during index rebuilds.
type NoteRef struct {
	Project   string
	Title     string
	Path      string
	Timestamp string
}

// NoteSummary pairs a title with its newest version timestamp.
type NoteSummary struct {
	Title         string `json:"title"`
	LatestVersion string `json:"latest_version"`
}

// DeleteResult reports what a delete removed. When a delete-all is
// interrupted partway, Count and Paths reflect only the versions that
// were actually removed.
type DeleteResult struct {
	Count int      `json:"deleted"`
	Paths []string `json:"files"`
}
