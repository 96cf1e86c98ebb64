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

package options

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Event is the part of the GitHub Actions event payload read by the commands.
type Event struct {
	PullRequest *PullRequest `json:"pull_request"`
	Issue       *Issue       `json:"issue"`
	Repository  *Repository  `json:"repository"`
}

type Issue struct {
	Number int `json:"number"`
}

type PullRequest struct {
	Number int     `json:"number"`
	Head   *Branch `json:"head"`
	Base   *Branch `json:"base"`
}

type Branch struct {
	SHA  string      `json:"sha"`
	Ref  string      `json:"ref"`
	Repo *Repository `json:"repo"`
}

type Repository struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	Owner    *Owner `json:"owner"`
}

type Owner struct {
	Login string `json:"login"`
}

func (e *Event) PRNumber() int {
	if e == nil {
		return 0
	}
	if e.PullRequest != nil {
		return e.PullRequest.Number
	}
	if e.Issue != nil {
		return e.Issue.Number
	}
	return 0
}

func (e *Event) SHA() string {
	if e == nil || e.PullRequest == nil || e.PullRequest.Head == nil {
		return ""
	}
	return e.PullRequest.Head.SHA
}

func (e *Event) HeadRef() string {
	if e == nil || e.PullRequest == nil || e.PullRequest.Head == nil {
		return ""
	}
	return e.PullRequest.Head.Ref
}

func (e *Event) RepoFullName() string {
	if e == nil {
		return ""
	}
	return e.Repository.fullName()
}

func (e *Event) HeadRepoFullName() string {
	if e == nil || e.PullRequest == nil || e.PullRequest.Head == nil {
		return ""
	}
	return e.PullRequest.Head.Repo.fullName()
}

func (r *Repository) fullName() string {
	if r == nil {
		return ""
	}
	if r.FullName != "" {
		return r.FullName
	}
	if r.Owner != nil && r.Owner.Login != "" && r.Name != "" {
		return r.Owner.Login + "/" + r.Name
	}
	return ""
}

func ReadEvent(fs afero.Fs, ev *Event, eventPath string) error {
	event, err := fs.Open(eventPath)
	if err != nil {
		return fmt.Errorf("read GITHUB_EVENT_PATH: %w", err)
	}
	defer event.Close()
	if err := json.NewDecoder(event).Decode(ev); err != nil {
		return fmt.Errorf("unmarshal GITHUB_EVENT_PATH: %w", err)
	}
	return nil
}
