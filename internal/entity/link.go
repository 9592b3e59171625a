package entity

// Anchor is an <a href> element found on the source page.
type Anchor struct {
	Href string
	Text string // Concatenated text of all descendant nodes, as rendered
}

// Link is a matched href resolved for download.
type Link struct {
	Href     string // Value of the href attribute as found on the page
	URL      string // Absolute URL
	FileName string // Last segment of Href
	Path     string // Destination path on disk
}
