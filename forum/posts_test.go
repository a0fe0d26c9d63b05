// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestPostsQueryParameters(t *testing.T) {
	var gotQuery atomic.Value
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		writeJSON(t, w, http.StatusOK, PostList{Subjects: []string{"Math", "Physics"}})
	}))

	t.Run("all filters", func(t *testing.T) {
		list, err := client.Posts(context.Background(), ListPostsOptions{
			Search:  "recursion",
			Subject: "Math",
			Sort:    "top",
		})
		if err != nil {
			t.Fatalf("Posts: %v", err)
		}
		want := "search=recursion&sort=top&subject=Math"
		if got := gotQuery.Load(); got != want {
			t.Errorf("query = %q, want %q", got, want)
		}
		if len(list.Subjects) != 2 {
			t.Errorf("Subjects = %v, want the server's taxonomy", list.Subjects)
		}
	})

	t.Run("zero options send no query", func(t *testing.T) {
		if _, err := client.Posts(context.Background(), ListPostsOptions{}); err != nil {
			t.Fatalf("Posts: %v", err)
		}
		if got := gotQuery.Load(); got != "" {
			t.Errorf("query = %q, want empty", got)
		}
	})
}

func TestVote(t *testing.T) {
	t.Run("rejects invalid direction locally", func(t *testing.T) {
		requests := 0
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))

		if _, err := client.Vote(context.Background(), 1, 2); err == nil {
			t.Fatal("expected error for vote type 2")
		}
		if _, err := client.Vote(context.Background(), 1, 0); err == nil {
			t.Fatal("expected error for vote type 0")
		}
		if requests != 0 {
			t.Errorf("invalid votes reached the server %d times", requests)
		}
	})

	t.Run("sends direction and returns tally", func(t *testing.T) {
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/posts/42/vote" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var body struct {
				VoteType int `json:"vote_type"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decoding vote body: %v", err)
			}
			if body.VoteType != VoteDown {
				t.Errorf("vote_type = %d, want %d", body.VoteType, VoteDown)
			}
			writeJSON(t, w, http.StatusOK, VoteResult{Upvotes: 3, Downvotes: 1, Score: 2})
		}))

		result, err := client.Vote(context.Background(), 42, VoteDown)
		if err != nil {
			t.Fatalf("Vote: %v", err)
		}
		if result.Score != 2 {
			t.Errorf("Score = %d, want 2", result.Score)
		}
	})
}

func TestCreateCommentParent(t *testing.T) {
	var gotBody atomic.Value
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decoding comment body: %v", err)
		}
		gotBody.Store(raw)
		writeJSON(t, w, http.StatusCreated, map[string]any{"comment": Comment{ID: 9, Content: "hi"}})
	}))

	t.Run("top-level omits parent_id", func(t *testing.T) {
		if _, err := client.CreateComment(context.Background(), 5, "hi", 0); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
		raw := gotBody.Load().(map[string]any)
		if _, present := raw["parent_id"]; present {
			t.Errorf("top-level comment sent parent_id: %v", raw)
		}
	})

	t.Run("reply carries parent_id", func(t *testing.T) {
		if _, err := client.CreateComment(context.Background(), 5, "hi", 3); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
		raw := gotBody.Load().(map[string]any)
		if parent, _ := raw["parent_id"].(float64); parent != 3 {
			t.Errorf("parent_id = %v, want 3", raw["parent_id"])
		}
	})
}

func TestPostDetailCommentTree(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, PostDetail{
			Post: Post{ID: 7, Title: "Big-O of heapify?"},
			Comments: []Comment{
				{ID: 1, Content: "O(n)", Replies: []Comment{
					{ID: 2, Content: "proof?", Replies: []Comment{
						{ID: 3, Content: "see CLRS 6.3"},
					}},
				}},
			},
		})
	}))

	detail, err := client.Post(context.Background(), 7)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if detail.Post.Title != "Big-O of heapify?" {
		t.Errorf("Title = %q", detail.Post.Title)
	}
	if len(detail.Comments) != 1 ||
		len(detail.Comments[0].Replies) != 1 ||
		detail.Comments[0].Replies[0].Replies[0].ID != 3 {
		t.Errorf("comment tree not preserved: %+v", detail.Comments)
	}
}
