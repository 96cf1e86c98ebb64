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
	"fmt"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/google/go-github/v68/github"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/report"
)

// Poster publishes on one pull request.
type Poster struct {
	PullRequests PullRequestsService
	Issues       IssuesService
	Owner        string
	Repo         string
	Number       int
	// CommitID anchors the review comments.
	CommitID string
}

func NewPoster(client *Client, repository string, number int, commitID string) (*Poster, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/name", repository)
	}
	return &Poster{
		PullRequests: client.PullRequests,
		Issues:       client.Issues,
		Owner:        owner,
		Repo:         repo,
		Number:       number,
		CommitID:     commitID,
	}, nil
}

type commentKey struct {
	path string
	line int
	body string
}

func (p *Poster) existingReviewComments(ctx context.Context) (map[commentKey]bool, error) {
	existing := map[commentKey]bool{}
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := p.PullRequests.ListComments(ctx, p.Owner, p.Repo, p.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range comments {
			existing[commentKey{c.GetPath(), c.GetLine(), c.GetBody()}] = true
		}
		if resp == nil || resp.NextPage == 0 {
			return existing, nil
		}
		opts.Page = resp.NextPage
	}
}

// unprocessable is GitHub refusing a comment on a line outside the diff.
func unprocessable(err error) bool {
	var errResp *github.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusUnprocessableEntity
}

// PostInline creates one review comment per finding, skipping comments
// already present. Lines GitHub cannot anchor are skipped with a warning.
// root makes the finding paths relative to the repository.
func (p *Poster) PostInline(ctx context.Context, findings []*finding.Finding, root string) (int, error) {
	existing, err := p.existingReviewComments(ctx)
	if err != nil {
		return 0, &PostError{Op: "list review comments", Err: err}
	}
	posted := 0
	for _, f := range findings {
		key := commentKey{report.RelPath(root, f.Path), f.Line, report.InlineBody(f)}
		if existing[key] {
			glog.V(1).Infof("review comment on %s:%d already exists", key.path, key.line)
			continue
		}
		comment := &PullRequestComment{
			Body:     github.Ptr(key.body),
			Path:     github.Ptr(key.path),
			Line:     github.Ptr(key.line),
			Side:     github.Ptr("RIGHT"),
			CommitID: github.Ptr(p.CommitID),
		}
		if _, _, err := p.PullRequests.CreateComment(ctx, p.Owner, p.Repo, p.Number, comment); err != nil {
			if unprocessable(err) {
				glog.Warningf("cannot comment on %s:%d: %v", key.path, key.line, err)
				continue
			}
			return posted, &PostError{Op: "create review comment", Err: err}
		}
		existing[key] = true
		posted++
	}
	glog.Infof("%d review comments posted on %s/%s#%d", posted, p.Owner, p.Repo, p.Number)
	return posted, nil
}

// UpsertSummary edits the bot comment containing title, or creates one.
func (p *Poster) UpsertSummary(ctx context.Context, title, body string) error {
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := p.Issues.ListComments(ctx, p.Owner, p.Repo, p.Number, opts)
		if err != nil {
			return &PostError{Op: "list issue comments", Err: err}
		}
		for _, c := range comments {
			if c.GetUser().GetLogin() == BotLogin && strings.Contains(c.GetBody(), title) {
				if _, _, err := p.Issues.EditComment(ctx, p.Owner, p.Repo, c.GetID(), &IssueComment{Body: github.Ptr(body)}); err != nil {
					return &PostError{Op: "edit comment", Err: err}
				}
				glog.Infof("summary comment %d updated", c.GetID())
				return nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if _, _, err := p.Issues.CreateComment(ctx, p.Owner, p.Repo, p.Number, &IssueComment{Body: github.Ptr(body)}); err != nil {
		return &PostError{Op: "create comment", Err: err}
	}
	glog.Info("summary comment created")
	return nil
}
