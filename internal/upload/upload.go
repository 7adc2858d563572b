package upload

import "context"

type Request struct {
	FilePath    string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
	MadeForKids bool
	// Progress receives incremental transfer updates as bytes sent out
	// of the total. Optional.
	Progress func(current, total int64)
}

type Response struct {
	ID  string
	URL string
}

type Uploader interface {
	Upload(ctx context.Context, req Request) (*Response, error)
}
