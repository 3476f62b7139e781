package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Repository is the repository snapshot embedded in every issue.
// Stars, Forks and Language are best-effort values supplied by the issue source.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	HTMLURL     string `json:"htmlUrl"`
	Owner       string `json:"owner"`
}

// RepoRef is a lightweight reference to a repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the full repository name in owner/repo format.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses a full name like "owner/repo" into a RepoRef.
func ParseRepoRef(fullName string) RepoRef {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return RepoRef{Name: fullName}
	}
	return RepoRef{Owner: owner, Name: name}
}

// IssueRef identifies a single issue by repository and number.
type IssueRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// String returns the reference in owner/repo#number form.
func (r IssueRef) String() string {
	return r.Owner + "/" + r.Repo + "#" + strconv.Itoa(r.Number)
}

// ParseIssueRef parses "owner/repo#number" or "owner/repo/issues/number".
func ParseIssueRef(s string) (IssueRef, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://github.com/")

	var repoPart, numPart string
	if before, after, ok := strings.Cut(s, "#"); ok {
		repoPart, numPart = before, after
	} else if before, after, ok := strings.Cut(s, "/issues/"); ok {
		repoPart, numPart = before, after
	} else {
		return IssueRef{}, fmt.Errorf("invalid issue reference %q: expected owner/repo#number", s)
	}

	ref := ParseRepoRef(repoPart)
	if ref.Owner == "" || ref.Name == "" {
		return IssueRef{}, fmt.Errorf("invalid issue reference %q: missing owner or repository", s)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(numPart, "/"))
	if err != nil || n <= 0 {
		return IssueRef{}, fmt.Errorf("invalid issue number in %q", s)
	}

	return IssueRef{Owner: ref.Owner, Repo: ref.Name, Number: n}, nil
}
