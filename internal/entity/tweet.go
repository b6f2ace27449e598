package entity

import "time"

// TweetSourceAPI marks tweets collected through the Twitter API.
const TweetSourceAPI = "twitter_api"

// Tweet is a classified social post stored in the tweets table.
type Tweet struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	AuthorID     string    `json:"author_id"`
	RetweetCount int       `json:"retweet_count"`
	LikeCount    int       `json:"like_count"`
	Hashtags     []string  `json:"hashtags"`
	Mentions     []string  `json:"mentions"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	ScrapedAt    time.Time `json:"scraped_at"`

	DecodeWarnings []string `json:"-"`
}
