package model

// Document is one entry from the EDINET daily document listing.
type Document struct {
	DocID          string `json:"docID"`
	FilerName      string `json:"filerName"`
	Description    string `json:"docDescription"`
	DocTypeCode    string `json:"docTypeCode"`
	SubmitDateTime string `json:"submitDateTime"`
	XBRLFlag       string `json:"xbrlFlag"`
	PDFFlag        string `json:"pdfFlag"`
}

// HasXBRL reports whether the filing carries XBRL data.
func (d Document) HasXBRL() bool {
	return d.XBRLFlag == "1"
}
