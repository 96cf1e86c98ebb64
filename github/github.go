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

/*
Package github publishes a report on a pull request: review comments on
the offending lines and one summary comment that is updated in place.
*/
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

type (
	Client             = github.Client
	IssueComment       = github.IssueComment
	PullRequestComment = github.PullRequestComment
	Response           = github.Response
)

// BotLogin authors the comments made with the workflow token.
const BotLogin = "github-actions[bot]"

// PostError is any failure to publish on the pull request.
type PostError struct {
	Op  string
	Err error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("github: %s: %v", e.Op, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

type PullRequestsService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *PullRequestComment) (*PullRequestComment, *Response, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*PullRequestComment, *Response, error)
}

type IssuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*IssueComment, *Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *IssueComment) (*IssueComment, *Response, error)
	EditComment(ctx context.Context, owner, repo string, commentID int64, comment *IssueComment) (*IssueComment, *Response, error)
}

// New creates a client authenticated with token. apiURL selects a GitHub
// Enterprise server; empty or the public API URL means github.com.
func New(ctx context.Context, token, apiURL string) (*Client, error) {
	httpClient := http.DefaultClient
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		))
	}
	client := github.NewClient(httpClient)
	if apiURL == "" || strings.TrimSuffix(apiURL, "/") == "https://api.github.com" {
		return client, nil
	}
	enterprise, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("github api url %s: %v", apiURL, err)
	}
	return enterprise, nil
}
