package dto

// TableResponse is the paginated table payload. Draw echoes the client's
// request counter.
type TableResponse struct {
	Draw            int        `json:"draw"`
	RecordsTotal    int64      `json:"recordsTotal"`
	RecordsFiltered int64      `json:"recordsFiltered"`
	Data            [][]string `json:"data"`
}
