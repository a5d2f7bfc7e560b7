// Package resolver resolves entity names and IDs referenced by query
// clauses: projects, versions, components, users, groups, and issue types.
//
// Names are not unique across a system, so name lookups are list-valued.
// Not-found is reported as nil / empty / false, never as an error.
package resolver

import "strings"

// Project is a project reachable by clause values.
type Project struct {
	ID   int64
	Key  string
	Name string
}

// Version is a project version. Released and archived flags drive the
// releasedVersions / unreleasedVersions function operands.
type Version struct {
	ID        int64
	Name      string
	ProjectID int64
	Released  bool
	Archived  bool
}

// Component is a project component.
type Component struct {
	ID        int64
	Name      string
	ProjectID int64
}

// IssueType is a configured issue type.
type IssueType struct {
	ID   string
	Name string
}

// Projects looks up projects by ID, key, or name.
type Projects interface {
	ProjectByID(id int64) (*Project, bool)
	ProjectsByKeyOrName(keyOrName string) []*Project
}

// Versions looks up versions by ID or name and enumerates by released state.
type Versions interface {
	VersionByID(id int64) (*Version, bool)
	VersionsByName(name string) []*Version
	ReleasedVersions() []*Version
	UnreleasedVersions() []*Version
}

// Components looks up components by ID or name.
type Components interface {
	ComponentByID(id int64) (*Component, bool)
	ComponentsByName(name string) []*Component
}

// Users answers existence checks for users and groups.
type Users interface {
	UserExists(username string) bool
	GroupExists(group string) bool
}

// IssueTypes looks up issue types by ID or name.
type IssueTypes interface {
	IssueTypeByID(id string) (*IssueType, bool)
	IssueTypesByName(name string) []*IssueType
}

// Registry is an in-memory implementation of every resolver interface. It
// backs tests and the CLI; a deployment wired to a real directory would
// substitute its own implementation per interface.
type Registry struct {
	projects   map[int64]*Project
	versions   map[int64]*Version
	components map[int64]*Component
	issueTypes map[string]*IssueType
	users      map[string]struct{}
	groups     map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		projects:   make(map[int64]*Project),
		versions:   make(map[int64]*Version),
		components: make(map[int64]*Component),
		issueTypes: make(map[string]*IssueType),
		users:      make(map[string]struct{}),
		groups:     make(map[string]struct{}),
	}
}

// AddProject registers a project.
func (r *Registry) AddProject(p Project) { r.projects[p.ID] = &p }

// AddVersion registers a version.
func (r *Registry) AddVersion(v Version) { r.versions[v.ID] = &v }

// AddComponent registers a component.
func (r *Registry) AddComponent(c Component) { r.components[c.ID] = &c }

// AddIssueType registers an issue type.
func (r *Registry) AddIssueType(t IssueType) { r.issueTypes[t.ID] = &t }

// AddUser registers a username.
func (r *Registry) AddUser(name string) { r.users[strings.ToLower(name)] = struct{}{} }

// AddGroup registers a group name.
func (r *Registry) AddGroup(name string) { r.groups[strings.ToLower(name)] = struct{}{} }

func (r *Registry) ProjectByID(id int64) (*Project, bool) {
	p, ok := r.projects[id]
	return p, ok
}

func (r *Registry) ProjectsByKeyOrName(keyOrName string) []*Project {
	var out []*Project
	for _, p := range r.projects {
		if strings.EqualFold(p.Key, keyOrName) || strings.EqualFold(p.Name, keyOrName) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) VersionByID(id int64) (*Version, bool) {
	v, ok := r.versions[id]
	return v, ok
}

func (r *Registry) VersionsByName(name string) []*Version {
	var out []*Version
	for _, v := range r.versions {
		if strings.EqualFold(v.Name, name) {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) ReleasedVersions() []*Version {
	var out []*Version
	for _, v := range r.versions {
		if v.Released && !v.Archived {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) UnreleasedVersions() []*Version {
	var out []*Version
	for _, v := range r.versions {
		if !v.Released && !v.Archived {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) ComponentByID(id int64) (*Component, bool) {
	c, ok := r.components[id]
	return c, ok
}

func (r *Registry) ComponentsByName(name string) []*Component {
	var out []*Component
	for _, c := range r.components {
		if strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) UserExists(username string) bool {
	_, ok := r.users[strings.ToLower(username)]
	return ok
}

func (r *Registry) GroupExists(group string) bool {
	_, ok := r.groups[strings.ToLower(group)]
	return ok
}

func (r *Registry) IssueTypeByID(id string) (*IssueType, bool) {
	t, ok := r.issueTypes[id]
	return t, ok
}

func (r *Registry) IssueTypesByName(name string) []*IssueType {
	var out []*IssueType
	for _, t := range r.issueTypes {
		if strings.EqualFold(t.Name, name) {
			out = append(out, t)
		}
	}
	return out
}
