package upload

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

var _ Uploader = (*YouTube)(nil)

// YouTube publishes videos through the Data API v3. The service is safe
// for concurrent use; one instance is shared by all pipelines in a run.
type YouTube struct {
	service *youtube.Service
}

func NewYouTube(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &YouTube{service: service}, nil
}

func (y *YouTube) Upload(ctx context.Context, req Request) (*Response, error) {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  req.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           req.Privacy,
			SelfDeclaredMadeForKids: req.MadeForKids,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = file.Close() }()

	call := y.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx)

	if req.Progress != nil {
		call.ProgressUpdater(googleapi.ProgressUpdater(req.Progress))
	}

	uploaded, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube upload: %w", err)
	}

	return &Response{
		ID:  uploaded.Id,
		URL: fmt.Sprintf("https://youtube.com/watch?v=%s", uploaded.Id),
	}, nil
}
