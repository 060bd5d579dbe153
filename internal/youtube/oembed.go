// Package youtube parses YouTube links and looks up public video metadata
// through the oEmbed endpoint.
package youtube

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v3/client"

	"github.com/WarriorSushi/supaviewer/internal/model"
)

// DefaultOEmbedURL is YouTube's public oEmbed endpoint.
const DefaultOEmbedURL = "https://www.youtube.com/oembed"

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractID returns the 11-character video id from a watch, youtu.be, embed or
// /v/ link, or "" when raw is none of those.
func ExtractID(raw string) string {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return ""
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Client fetches oEmbed metadata.
type Client struct {
	http     *client.Client
	endpoint string
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}
	cc := client.New()
	cc.SetTimeout(timeout)
	return &Client{http: cc, endpoint: endpoint}
}

// Fetch looks up the title and thumbnail of a video id.
func (c *Client) Fetch(ctx context.Context, id string) (*model.VideoMetadata, error) {
	resp, err := c.http.Get(c.endpoint, client.Config{
		Ctx: ctx,
		Param: map[string]string{
			"url":    WatchURL(id),
			"format": "json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("oembed returned status %d", resp.StatusCode())
	}

	var meta model.VideoMetadata
	if err := resp.JSON(&meta); err != nil {
		return nil, fmt.Errorf("decode oembed: %w", err)
	}
	return &meta, nil
}
