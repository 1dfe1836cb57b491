package domain

// FeedAuthor is the author reference on a feed post
type FeedAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FeedImage is the image reference inside a media entry
type FeedImage struct {
	Src string `json:"src"`
}

// FeedMedia is one media entry inside an attachment
type FeedMedia struct {
	Image  FeedImage `json:"image"`
	Source string    `json:"source,omitempty"`
}

// FeedAttachmentList wraps a list of attachments
type FeedAttachmentList struct {
	Data []FeedAttachment `json:"data"`
}

// FeedAttachment is one attachment on a feed post. Multi-photo posts
// nest the individual items under subattachments.
type FeedAttachment struct {
	Type           string              `json:"type"`
	Media          *FeedMedia          `json:"media,omitempty"`
	Subattachments *FeedAttachmentList `json:"subattachments,omitempty"`
}

// FeedComment is one comment on a feed post
type FeedComment struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// FeedComments is the comment list on a feed post
type FeedComments struct {
	Data []FeedComment `json:"data"`
}

// FeedPost is one post as returned by the external feed source.
// Ephemeral: re-fetched each session, never persisted directly.
type FeedPost struct {
	ID          string      `json:"id"`
	From        *FeedAuthor `json:"from,omitempty"`
	Message     string      `json:"message,omitempty"`
	CreatedTime string      `json:"created_time"`
	UpdatedTime string      `json:"updated_time"`
	Type        string      `json:"type"`
	Comments     *FeedComments       `json:"comments,omitempty"`
	Attachments  *FeedAttachmentList `json:"attachments,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

// AuthorID returns the author id, or "0" when the feed omits the author
func (p *FeedPost) AuthorID() string {
	if p.From == nil {
		return "0"
	}
	return p.From.ID
}

// AuthorName returns the author name, or a placeholder when absent
func (p *FeedPost) AuthorName() string {
	if p.From == nil {
		return "Unknown User"
	}
	return p.From.Name
}

// CommentCount returns the number of comments on the post
func (p *FeedPost) CommentCount() int {
	if p.Comments == nil {
		return 0
	}
	return len(p.Comments.Data)
}

// PostContent is the extracted message and photo links of a feed post
type PostContent struct {
	Message string   `json:"message"`
	Photos  []string `json:"photos"`
}

// Content extracts the message text and photo attachment links
func (p *FeedPost) Content() PostContent {
	content := PostContent{Photos: []string{}}
	if p.Message != "" {
		content.Message = p.Message
	}
	if p.Attachments == nil || len(p.Attachments.Data) == 0 {
		return content
	}

	first := p.Attachments.Data[0]
	var media []FeedAttachment
	if first.Subattachments != nil {
		media = first.Subattachments.Data
	} else if first.Media != nil {
		media = []FeedAttachment{first}
	}
	for _, m := range media {
		if m.Type == "photo" && m.Media != nil {
			content.Photos = append(content.Photos, m.Media.Image.Src)
		}
	}
	return content
}

// FeedPaging carries the cursors of a feed page
type FeedPaging struct {
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// FeedPage is one page of the external feed
type FeedPage struct {
	Data   []FeedPost `json:"data"`
	Paging FeedPaging `json:"paging"`
}

// SessionPost is a feed post as held in a feed session: the external post
// plus its locally known migration status and selection flag.
type SessionPost struct {
	FeedPost
	// Status is empty for unrequested posts, otherwise one of the
	// migration status values.
	Status          string `json:"status,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	IsSelected      bool   `json:"is_selected"`
}

// Selectable reports whether the post may be included in a batch:
// only posts without any migration status can be selected.
func (p *SessionPost) Selectable() bool {
	return p.Status == ""
}

// FeedSession is the per-user fetch/selection state of the migrate view.
// All mutation goes through the transition methods below; the session is
// persisted between HTTP calls by the session store.
type FeedSession struct {
	UserID     string        `json:"user_id"`
	FeedUserID string        `json:"feed_user_id"`
	Posts      []SessionPost `json:"posts"`
	NextCursor string        `json:"next_cursor"`
	FirstPage  bool          `json:"first_page"`
	LastPage   bool          `json:"last_page"`
	Fetching   bool          `json:"fetching"`
}

// NewFeedSession creates a fresh session for a user
func NewFeedSession(userID, feedUserID string) *FeedSession {
	return &FeedSession{
		UserID:     userID,
		FeedUserID: feedUserID,
		Posts:      []SessionPost{},
		FirstPage:  true,
	}
}

// AppendPage appends a fetched page's posts and advances the cursor.
// Insertion order is preserved; the feed contract guarantees no
// duplicate ids across pages, so no dedup is performed.
func (s *FeedSession) AppendPage(posts []SessionPost, nextCursor string) {
	s.Posts = append(s.Posts, posts...)
	s.NextCursor = nextCursor
	s.FirstPage = false
	if nextCursor == "" {
		s.LastPage = true
	}
}

// MarkExhausted flags the feed as fully consumed
func (s *FeedSession) MarkExhausted() {
	s.LastPage = true
}

// Toggle flips the selection of one post. Posts that already carry a
// migration status are immutable to selection; toggling them is a no-op.
func (s *FeedSession) Toggle(postID string) {
	for i := range s.Posts {
		if s.Posts[i].ID == postID && s.Posts[i].Selectable() {
			s.Posts[i].IsSelected = !s.Posts[i].IsSelected
			return
		}
	}
}

// SetAll sets the selection flag on every selectable post, leaving
// requested/migrated/declined posts untouched.
func (s *FeedSession) SetAll(selected bool) {
	for i := range s.Posts {
		if s.Posts[i].Selectable() {
			s.Posts[i].IsSelected = selected
		}
	}
}

// Selected returns the currently selected posts
func (s *FeedSession) Selected() []SessionPost {
	var out []SessionPost
	for _, p := range s.Posts {
		if p.IsSelected {
			out = append(out, p)
		}
	}
	return out
}

// SelectedCount returns the number of selected posts
func (s *FeedSession) SelectedCount() int {
	n := 0
	for _, p := range s.Posts {
		if p.IsSelected {
			n++
		}
	}
	return n
}

// MarkSubmitted transitions the given posts to pending review and
// deselects them. Posts not in ids are left untouched.
func (s *FeedSession) MarkSubmitted(ids map[string]bool) {
	for i := range s.Posts {
		if ids[s.Posts[i].ID] {
			s.Posts[i].Status = StatusPendingReview
			s.Posts[i].RejectionReason = ""
			s.Posts[i].IsSelected = false
		}
	}
}
