// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

// Timestamps throughout this file are strings, not time.Time: the
// server emits bare ISO 8601 without a zone offset ("2026-03-01T12:04:05"),
// which the RFC 3339 parser in encoding/json rejects. Callers that
// need a time.Time parse with their own layout.

// User is the authenticated account record, as returned by the auth
// endpoints. Endpoints return overlapping subsets of these fields;
// absent fields are left at their zero value.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Branch           string `json:"branch,omitempty"`
	Year             string `json:"year,omitempty"`
	Section          string `json:"section,omitempty"`
	Role             string `json:"role,omitempty"`
	Bio              string `json:"bio,omitempty"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	LinkedInURL      string `json:"linkedin_url,omitempty"`
	GitHubURL        string `json:"github_url,omitempty"`
	ReputationPoints int    `json:"reputation_points,omitempty"`
	PostsCount       int    `json:"posts_count,omitempty"`
	CommentsCount    int    `json:"comments_count,omitempty"`
}

// Author is the embedded author summary on posts and comments.
type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	Name      string `json:"name"`
	Branch    string `json:"branch,omitempty"`
	Year      string `json:"year,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Post is a forum post.
type Post struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Subject      string  `json:"subject"`
	Timestamp    string  `json:"timestamp,omitempty"`
	EditedAt     string  `json:"edited_at,omitempty"`
	ViewCount    int     `json:"view_count,omitempty"`
	Upvotes      int     `json:"upvotes,omitempty"`
	Downvotes    int     `json:"downvotes,omitempty"`
	Score        int     `json:"score"`
	Author       *Author `json:"author,omitempty"`
	CommentCount int     `json:"comment_count,omitempty"`
	UserID       int64   `json:"user_id,omitempty"`
}

// Comment is a comment on a post. Replies nest one level per element;
// the server returns the full tree under each top-level comment.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp,omitempty"`
	EditedAt  string    `json:"edited_at,omitempty"`
	Author    *Author   `json:"author,omitempty"`
	Replies   []Comment `json:"replies,omitempty"`
}

// PostList is the GET /posts response: the filtered post list plus the
// fixed subject taxonomy the server offers for filtering.
type PostList struct {
	Posts    []Post   `json:"posts"`
	Subjects []string `json:"subjects"`
}

// PostDetail is the GET /posts/:id response.
type PostDetail struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

// VoteResult is the updated tally after a vote call.
type VoteResult struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Score     int `json:"score"`
}

// AuthResponse is returned by login and register: the bearer token and
// the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfilePage is the GET /auth/profile/:userId response: the user plus
// their recent posts.
type ProfilePage struct {
	User  User   `json:"user"`
	Posts []Post `json:"posts"`
}

// Conversation is one entry in the conversation list. OtherUser is the
// counterpart in a direct conversation; nil for conversations whose
// counterpart no longer resolves.
type Conversation struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	OtherUser   *Author `json:"other_user,omitempty"`
	UnreadCount int     `json:"unread_count"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// Message is a direct message inside a conversation.
type Message struct {
	ID             int64  `json:"id"`
	Content        string `json:"content"`
	SenderID       int64  `json:"sender_id"`
	SenderUsername string `json:"sender_username,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderAvatar   string `json:"sender_avatar,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	EditedAt       string `json:"edited_at,omitempty"`
}

// ConversationMessages is the GET /conversations/:id response. The
// server delivers Messages newest-first; ConversationPoller reverses
// them before handing the list to its callback.
type ConversationMessages struct {
	Conversation struct {
		ID int64 `json:"id"`
	} `json:"conversation"`
	Messages []Message `json:"messages"`
}

// Profile is the public profile from GET /users/:username, including
// follower statistics.
type Profile struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	DisplayName      string `json:"display_name,omitempty"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	Bio              string `json:"bio,omitempty"`
	Status           string `json:"status,omitempty"`
	Branch           string `json:"branch,omitempty"`
	Year             string `json:"year,omitempty"`
	Section          string `json:"section,omitempty"`
	Skills           string `json:"skills,omitempty"`
	LinkedInURL      string `json:"linkedin_url,omitempty"`
	GitHubURL        string `json:"github_url,omitempty"`
	ReputationPoints int    `json:"reputation_points,omitempty"`
	FollowersCount   int    `json:"followers_count"`
	FollowingCount   int    `json:"following_count"`
	PostsCount       int    `json:"posts_count"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// UserSummary is one entry in a followers/following listing.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AIAnswer is the POST /ai/answer response. Success is false when the
// AI provider failed; Error then carries the reason. The HTTP status
// is 200 either way — provider failures are payload-level, not
// transport-level.
type AIAnswer struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AISummary is the POST /ai/summarize response.
type AISummary struct {
	Success bool   `json:"success"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Moderation is the POST /ai/moderate verdict. The client exposes it
// as a callable but never enforces it before posting — submission
// flows do not call Moderate.
type Moderation struct {
	IsSafe     bool    `json:"is_safe"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Enhancement is the POST /ai/enhance response: a reworked question
// plus the list of applied improvements.
type Enhancement struct {
	Success          bool     `json:"success"`
	EnhancedQuestion string   `json:"enhanced_question,omitempty"`
	Improvements     []string `json:"improvements,omitempty"`
	Error            string   `json:"error,omitempty"`
}
