/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v68/github"
	"naive.systems/staticanalysis/finding"
)

type fakePullRequests struct {
	existing []*PullRequestComment
	created  []*PullRequestComment
	// status per line for CreateComment failures
	failLine map[int]int
	listErr  error
}

func (f *fakePullRequests) CreateComment(ctx context.Context, owner, repo string, number int, comment *PullRequestComment) (*PullRequestComment, *Response, error) {
	if status, ok := f.failLine[comment.GetLine()]; ok {
		request := &http.Request{Method: http.MethodPost, URL: &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/owner/repo/pulls/7/comments"}}
		return nil, nil, &github.ErrorResponse{Response: &http.Response{StatusCode: status, Request: request}, Message: "failed"}
	}
	f.created = append(f.created, comment)
	return comment, &Response{}, nil
}

func (f *fakePullRequests) ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*PullRequestComment, *Response, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.existing, &Response{}, nil
}

type fakeIssues struct {
	pages   [][]*IssueComment
	created []string
	edited  map[int64]string
	err     error
}

func (f *fakeIssues) ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*IssueComment, *Response, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	resp := &Response{}
	if page < len(f.pages) {
		resp.NextPage = page + 1
	}
	if page > len(f.pages) {
		return nil, resp, nil
	}
	return f.pages[page-1], resp, nil
}

func (f *fakeIssues) CreateComment(ctx context.Context, owner, repo string, number int, comment *IssueComment) (*IssueComment, *Response, error) {
	f.created = append(f.created, comment.GetBody())
	return comment, &Response{}, nil
}

func (f *fakeIssues) EditComment(ctx context.Context, owner, repo string, commentID int64, comment *IssueComment) (*IssueComment, *Response, error) {
	if f.edited == nil {
		f.edited = map[int64]string{}
	}
	f.edited[commentID] = comment.GetBody()
	return comment, &Response{}, nil
}

func issueComment(id int64, login, body string) *IssueComment {
	return &IssueComment{ID: github.Ptr(id), Body: github.Ptr(body), User: &github.User{Login: github.Ptr(login)}}
}

func newPoster(prs *fakePullRequests, issues *fakeIssues) *Poster {
	return &Poster{PullRequests: prs, Issues: issues, Owner: "owner", Repo: "repo", Number: 7, CommitID: "abc"}
}

func TestUpsertSummary(t *testing.T) {
	for _, testCase := range []struct {
		name    string
		pages   [][]*IssueComment
		created []string
		edited  map[int64]string
	}{
		{
			name:    "no comments",
			created: []string{"new body"},
		},
		{
			name: "bot comment on second page",
			pages: [][]*IssueComment{
				{issueComment(1, "someone", "Static analysis result looks odd")},
				{issueComment(2, "github-actions[bot]", "unrelated"), issueComment(3, "github-actions[bot]", "## :zap: Static analysis result :zap:")},
			},
			edited: map[int64]string{3: "new body"},
		},
		{
			name:    "title by a human only",
			pages:   [][]*IssueComment{{issueComment(1, "someone", "Static analysis result")}},
			created: []string{"new body"},
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			issues := &fakeIssues{pages: testCase.pages}
			if err := newPoster(&fakePullRequests{}, issues).UpsertSummary(context.Background(), "Static analysis result", "new body"); err != nil {
				t.Fatalf("UpsertSummary() error = %v", err)
			}
			if diff := cmp.Diff(testCase.created, issues.created); diff != "" {
				t.Errorf("created mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(testCase.edited, issues.edited); diff != "" {
				t.Errorf("edited mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpsertSummaryError(t *testing.T) {
	issues := &fakeIssues{err: errors.New("401 Bad credentials")}
	err := newPoster(&fakePullRequests{}, issues).UpsertSummary(context.Background(), "t", "b")
	var postErr *PostError
	if !errors.As(err, &postErr) {
		t.Fatalf("UpsertSummary() error = %v, want *PostError", err)
	}
}

func TestPostInline(t *testing.T) {
	findings := []*finding.Finding{
		{Path: "/repo/src/a.c", Line: 3, Severity: finding.SeverityError, Message: "null deref", Origins: []finding.Tool{finding.Cppcheck}},
		{Path: "/repo/src/a.c", Line: 9, Severity: finding.SeverityStyle, Message: "unused", Origins: []finding.Tool{finding.Cppcheck}},
		{Path: "/repo/src/b.c", Line: 1, Severity: finding.SeverityWarning, Message: "shadow", Origins: []finding.Tool{finding.ClangTidy}},
	}
	prs := &fakePullRequests{
		existing: []*PullRequestComment{{
			Path: github.Ptr("src/b.c"),
			Line: github.Ptr(1),
			Body: github.Ptr("**warning**: shadow\n\n_clang-tidy_"),
		}},
		failLine: map[int]int{9: http.StatusUnprocessableEntity},
	}
	posted, err := newPoster(prs, &fakeIssues{}).PostInline(context.Background(), findings, "/repo")
	if err != nil {
		t.Fatalf("PostInline() error = %v", err)
	}
	if posted != 1 || len(prs.created) != 1 {
		t.Fatalf("posted = %d, created = %v", posted, prs.created)
	}
	c := prs.created[0]
	if c.GetPath() != "src/a.c" || c.GetLine() != 3 || c.GetCommitID() != "abc" || c.GetSide() != "RIGHT" {
		t.Errorf("comment = %+v", c)
	}
}

func TestPostInlineErrors(t *testing.T) {
	findings := []*finding.Finding{{Path: "/repo/a.c", Line: 1, Severity: finding.SeverityError, Message: "x"}}
	for _, prs := range []*fakePullRequests{
		{listErr: errors.New("connection refused")},
		{failLine: map[int]int{1: http.StatusForbidden}},
	} {
		_, err := newPoster(prs, &fakeIssues{}).PostInline(context.Background(), findings, "/repo")
		var postErr *PostError
		if !errors.As(err, &postErr) {
			t.Errorf("PostInline() error = %v, want *PostError", err)
		}
	}
}

func TestNew(t *testing.T) {
	client, err := New(context.Background(), "token", "")
	if err != nil || client.BaseURL.String() != "https://api.github.com/" {
		t.Errorf("New() = %v, %v", client, err)
	}
	client, err = New(context.Background(), "", "https://ghe.example.com/api/v3")
	if err != nil {
		t.Fatal(err)
	}
	if client.BaseURL.String() != "https://ghe.example.com/api/v3/" {
		t.Errorf("BaseURL = %s", client.BaseURL)
	}
}
