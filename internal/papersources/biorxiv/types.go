// Package biorxiv provides a client for the bioRxiv preprint server API.
//
// bioRxiv exposes a cursor-paginated details feed of preprints per date
// window. The API has no server-side text search, so this client filters the
// feed locally against the query terms.
//
// The API documentation is available at: https://api.biorxiv.org/
package biorxiv

// DetailsResponse is the response envelope from the details endpoint.
type DetailsResponse struct {
	Messages   []Message  `json:"messages"`
	Collection []Preprint `json:"collection"`
}

// Message carries feed status and pagination metadata.
type Message struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
	Total  int    `json:"total,omitempty"`
}

// Preprint is one entry in the details feed.
type Preprint struct {
	DOI                    string `json:"doi"`
	Title                  string `json:"title"`
	Authors                string `json:"authors"`
	CorrespondingAuthor    string `json:"author_corresponding"`
	CorrespondingInstitute string `json:"author_corresponding_institution"`
	Date                   string `json:"date"`
	Version                string `json:"version"`
	Type                   string `json:"type"`
	Category               string `json:"category"`
	Abstract               string `json:"abstract"`
	Published              string `json:"published"`
	Server                 string `json:"server"`
}
