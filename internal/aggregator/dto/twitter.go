package dto

// TwitterSearchResponse is the Twitter API v2 recent search response.
type TwitterSearchResponse struct {
	Data     []TwitterTweet   `json:"data"`
	Includes *TwitterIncludes `json:"includes"`
}

type TwitterTweet struct {
	ID            string                `json:"id"`
	Text          string                `json:"text"`
	AuthorID      string                `json:"author_id"`
	CreatedAt     string                `json:"created_at"`
	PublicMetrics *TwitterPublicMetrics `json:"public_metrics"`
	Entities      *TwitterEntities      `json:"entities"`
}

type TwitterPublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	LikeCount    int `json:"like_count"`
	ReplyCount   int `json:"reply_count"`
	QuoteCount   int `json:"quote_count"`
}

type TwitterEntities struct {
	Hashtags []TwitterHashtag `json:"hashtags"`
	Mentions []TwitterMention `json:"mentions"`
}

type TwitterHashtag struct {
	Tag string `json:"tag"`
}

type TwitterMention struct {
	Username string `json:"username"`
}

type TwitterIncludes struct {
	Users []TwitterUser `json:"users"`
}

type TwitterUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
