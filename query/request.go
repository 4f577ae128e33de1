package query

// Page restricts a result to a window of the ordered records.
type Page struct {
	Offset int
	Limit  int
}

// Request describes what subset of a collection is wanted and in which order. A Request is
// built per call and holds no state.
type Request struct {
	Filters []Filter
	Sort    *SortSpec
	Page    *Page
}

// Result is the ordered outcome of a Request.
type Result struct {
	Records []Record
	// Total is the number of records that matched before paging.
	Total int
	// NextOffset is the offset of the following page, or -1 when there is none.
	NextOffset int
}

// Execute filters, orders and pages records.
func Execute(records []Record, req Request) Result {
	matched := Sort(Apply(records, req.Filters...), req.Sort)
	result := Result{Records: matched, Total: len(matched), NextOffset: -1}

	if req.Page == nil || req.Page.Limit <= 0 {
		return result
	}

	start := req.Page.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if req.Page.Limit < end-start {
		end = start + req.Page.Limit
		result.NextOffset = end
	}
	result.Records = matched[start:end]
	return result
}
