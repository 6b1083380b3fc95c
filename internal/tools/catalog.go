package tools

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// ID identifies one registered tool. The set is closed: every ID has exactly
// one Definition in the catalog.
type ID int

const (
	ListRepos ID = iota
	GetRepoDetails
	CreateRepo
	ListIssues
	CreateIssue
	ListPullRequests
	MergePullRequest
	ListBranches
	GetLatestCommit
	ListContributors
	AddCollaborator
	CreateFile

	numTools
)

// ParamType is the primitive type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeBoolean ParamType = "boolean"
	TypeInteger ParamType = "integer"
)

// Param locations.
const (
	InPath = "path"
	InBody = "body"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     interface{}
	In          string // path or body
}

// Request is the provider call derived from one invocation.
type Request struct {
	Method string
	Path   string
	Body   map[string]interface{} // nil sends no body
}

// Definition is the static contract of a tool.
type Definition struct {
	ID          ID
	Name        string
	Description string
	Method      string
	Path        string // display template; build produces the real path
	Params      []Param

	// ExpectedStatus, when set, makes the dispatcher check the response
	// status and return a structured error for anything else.
	ExpectedStatus []int
	ErrorMessage   string

	build func(in Input) Request
}

// Build derives the provider request from validated input.
func (d Definition) Build(in Input) Request {
	return d.build(in)
}

// StatusChecked reports whether the tool checks status codes on its own.
func (d Definition) StatusChecked() bool {
	return len(d.ExpectedStatus) > 0
}

func (id ID) String() string {
	if id < 0 || id >= numTools {
		return fmt.Sprintf("tools.ID(%d)", int(id))
	}
	return catalog[id].Name
}

// expandPath substitutes {name} placeholders with input values verbatim,
// left to right. Substituted text is never rescanned.
func expandPath(template string, in Input) string {
	var b strings.Builder
	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		end += start

		b.WriteString(rest[:start])
		if val, ok := in.values[rest[start+1:end]]; ok {
			b.WriteString(fmt.Sprint(val))
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	b.WriteString(rest)
	return b.String()
}

var (
	ownerParam = Param{Name: "owner", Type: TypeString, Required: true, In: InPath,
		Description: "The GitHub username or organization that owns the repository."}
	repoParam = Param{Name: "repo", Type: TypeString, Required: true, In: InPath,
		Description: "The name of the repository."}
)

// get builds a bodiless GET against a fixed template.
func get(template string) func(Input) Request {
	return func(in Input) Request {
		return Request{Method: http.MethodGet, Path: expandPath(template, in)}
	}
}

var catalog = [numTools]Definition{
	ListRepos: {
		ID:          ListRepos,
		Name:        "list_repos",
		Description: "List repositories. With a username, returns that user's public repositories; without one, returns public and private repositories of the authenticated user.",
		Method:      http.MethodGet,
		Path:        "/users/{username}/repos | /user/repos",
		Params: []Param{
			{Name: "username", Type: TypeString, In: InPath,
				Description: "GitHub username whose repositories should be listed. Omit for the authenticated user."},
		},
		ExpectedStatus: []int{http.StatusOK},
		ErrorMessage:   "Failed to fetch repositories",
		build: func(in Input) Request {
			if in.Has("username") {
				return Request{Method: http.MethodGet, Path: expandPath("/users/{username}/repos", in)}
			}
			return Request{Method: http.MethodGet, Path: "/user/repos"}
		},
	},
	GetRepoDetails: {
		ID:           GetRepoDetails,
		Name:         "get_repo_details",
		Description:  "Get repository metadata including description, stars, forks and default branch.",
		Method:       http.MethodGet,
		Path:         "/repos/{owner}/{repo}",
		Params:       []Param{ownerParam, repoParam},
		ErrorMessage: "Failed to fetch repository details",
		build:        get("/repos/{owner}/{repo}"),
	},
	CreateRepo: {
		ID:          CreateRepo,
		Name:        "create_repo",
		Description: "Create a new repository for the authenticated user.",
		Method:      http.MethodPost,
		Path:        "/user/repos",
		Params: []Param{
			{Name: "name", Type: TypeString, Required: true, In: InBody,
				Description: "The name of the repository to create."},
			{Name: "description", Type: TypeString, Required: true, In: InBody,
				Description: "A short description of the repository."},
			{Name: "private", Type: TypeBoolean, Required: true, In: InBody,
				Description: "Whether the repository should be private."},
		},
		ErrorMessage: "Failed to create repository",
		build: func(in Input) Request {
			return Request{
				Method: http.MethodPost,
				Path:   "/user/repos",
				Body: map[string]interface{}{
					"name":        in.String("name"),
					"description": in.String("description"),
					"private":     in.Bool("private"),
				},
			}
		},
	},
	ListIssues: {
		ID:           ListIssues,
		Name:         "list_issues",
		Description:  "List open issues in a repository.",
		Method:       http.MethodGet,
		Path:         "/repos/{owner}/{repo}/issues",
		Params:       []Param{ownerParam, repoParam},
		ErrorMessage: "Failed to fetch issues",
		build:        get("/repos/{owner}/{repo}/issues"),
	},
	CreateIssue: {
		ID:          CreateIssue,
		Name:        "create_issue",
		Description: "Create a new issue in a repository.",
		Method:      http.MethodPost,
		Path:        "/repos/{owner}/{repo}/issues",
		Params: []Param{
			ownerParam,
			repoParam,
			{Name: "title", Type: TypeString, Required: true, In: InBody,
				Description: "The title of the issue."},
			{Name: "body", Type: TypeString, Required: true, In: InBody,
				Description: "The detailed description of the issue."},
		},
		ErrorMessage: "Failed to create issue",
		build: func(in Input) Request {
			return Request{
				Method: http.MethodPost,
				Path:   expandPath("/repos/{owner}/{repo}/issues", in),
				Body: map[string]interface{}{
					"title": in.String("title"),
					"body":  in.String("body"),
				},
			}
		},
	},
	ListPullRequests: {
		ID:           ListPullRequests,
		Name:         "list_pull_requests",
		Description:  "List open pull requests in a repository.",
		Method:       http.MethodGet,
		Path:         "/repos/{owner}/{repo}/pulls",
		Params:       []Param{ownerParam, repoParam},
		ErrorMessage: "Failed to fetch pull requests",
		build:        get("/repos/{owner}/{repo}/pulls"),
	},
	MergePullRequest: {
		ID:          MergePullRequest,
		Name:        "merge_pull_request",
		Description: "Merge a pull request.",
		Method:      http.MethodPut,
		Path:        "/repos/{owner}/{repo}/pulls/{pr_number}/merge",
		Params: []Param{
			ownerParam,
			repoParam,
			{Name: "pr_number", Type: TypeInteger, Required: true, In: InPath,
				Description: "The pull request number to merge."},
		},
		ErrorMessage: "Failed to merge pull request",
		build: func(in Input) Request {
			return Request{
				Method: http.MethodPut,
				Path:   expandPath("/repos/{owner}/{repo}/pulls/{pr_number}/merge", in),
			}
		},
	},
	ListBranches: {
		ID:           ListBranches,
		Name:         "list_branches",
		Description:  "List all branches of a repository.",
		Method:       http.MethodGet,
		Path:         "/repos/{owner}/{repo}/branches",
		Params:       []Param{ownerParam, repoParam},
		ErrorMessage: "Failed to fetch branches",
		build:        get("/repos/{owner}/{repo}/branches"),
	},
	GetLatestCommit: {
		ID:          GetLatestCommit,
		Name:        "get_latest_commit",
		Description: "Get the latest commit on a branch.",
		Method:      http.MethodGet,
		Path:        "/repos/{owner}/{repo}/commits/{branch}",
		Params: []Param{
			ownerParam,
			repoParam,
			{Name: "branch", Type: TypeString, Required: true, In: InPath,
				Description: "The branch to read the latest commit from."},
		},
		ErrorMessage: "Failed to fetch latest commit",
		build:        get("/repos/{owner}/{repo}/commits/{branch}"),
	},
	ListContributors: {
		ID:           ListContributors,
		Name:         "list_contributors",
		Description:  "List contributors to a repository.",
		Method:       http.MethodGet,
		Path:         "/repos/{owner}/{repo}/contributors",
		Params:       []Param{ownerParam, repoParam},
		ErrorMessage: "Failed to fetch contributors",
		build:        get("/repos/{owner}/{repo}/contributors"),
	},
	AddCollaborator: {
		ID:          AddCollaborator,
		Name:        "add_collaborator",
		Description: "Add a collaborator to a repository.",
		Method:      http.MethodPut,
		Path:        "/repos/{owner}/{repo}/collaborators/{username}",
		Params: []Param{
			ownerParam,
			repoParam,
			{Name: "username", Type: TypeString, Required: true, In: InPath,
				Description: "The GitHub username of the collaborator."},
			{Name: "permission", Type: TypeString, Required: true, In: InBody,
				Description: "Permission to grant, e.g. pull, push or admin."},
		},
		ErrorMessage: "Failed to add collaborator",
		build: func(in Input) Request {
			return Request{
				Method: http.MethodPut,
				Path:   expandPath("/repos/{owner}/{repo}/collaborators/{username}", in),
				Body: map[string]interface{}{
					"permission": in.String("permission"),
				},
			}
		},
	},
	CreateFile: {
		ID:          CreateFile,
		Name:        "create_file",
		Description: "Create a new file in a repository with a commit.",
		Method:      http.MethodPut,
		Path:        "/repos/{owner}/{repo}/contents/{path}",
		Params: []Param{
			ownerParam,
			repoParam,
			{Name: "path", Type: TypeString, Required: true, In: InPath,
				Description: "File path inside the repository, e.g. docs/readme.md."},
			{Name: "content", Type: TypeString, Required: true, In: InBody,
				Description: "File content as plain text. It is base64 encoded before upload."},
			{Name: "message", Type: TypeString, Required: true, In: InBody,
				Description: "The commit message."},
			{Name: "branch", Type: TypeString, Default: "main", In: InBody,
				Description: "Branch to commit to (default: main)."},
		},
		ExpectedStatus: []int{http.StatusOK, http.StatusCreated},
		ErrorMessage:   "Failed to create file",
		build: func(in Input) Request {
			return Request{
				Method: http.MethodPut,
				Path:   expandPath("/repos/{owner}/{repo}/contents/{path}", in),
				Body: map[string]interface{}{
					"message": in.String("message"),
					"content": EncodeContent(in.String("content")),
					"branch":  in.String("branch"),
				},
			}
		},
	},
}

// EncodeContent encodes file content for transport in a JSON body.
func EncodeContent(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

// Definitions returns the catalog in ID order.
func Definitions() []Definition {
	defs := make([]Definition, len(catalog))
	copy(defs, catalog[:])
	return defs
}

// Lookup returns the definition for id.
func Lookup(id ID) (Definition, bool) {
	if id < 0 || id >= numTools {
		return Definition{}, false
	}
	return catalog[id], true
}

// LookupName returns the definition registered under name.
func LookupName(name string) (Definition, bool) {
	for _, def := range catalog {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}
