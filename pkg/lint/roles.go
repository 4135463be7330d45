package lint

import (
	"strings"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Role is a set of capability tags describing what a class-like declaration is.
// A declaration is classified once and rules read the tags instead of
// re-deriving them.
type Role uint16

// Roles known to the classifier.
const (
	RoleFactory Role = 1 << iota
	RoleController
	RoleFacade
	RoleClient
	RoleConfig
	RolePlugin
	RoleRepository
	RoleEntityManager
	RoleQueryContainer
	RoleDependencyProvider
	RoleTest

	// RoleNone is the empty set.
	RoleNone Role = 0
)

// roleSuffixes maps class name suffixes to roles. Longer suffixes come first
// so that QueryContainer is not mistaken for something shorter.
var roleSuffixes = []struct {
	suffix string
	role   Role
}{
	{"DependencyProvider", RoleDependencyProvider},
	{"QueryContainer", RoleQueryContainer},
	{"EntityManager", RoleEntityManager},
	{"Repository", RoleRepository},
	{"Controller", RoleController},
	{"Factory", RoleFactory},
	{"Facade", RoleFacade},
	{"Client", RoleClient},
	{"Config", RoleConfig},
	{"Plugin", RolePlugin},
}

var roleNames = []struct {
	role Role
	name string
}{
	{RoleFactory, "Factory"},
	{RoleController, "Controller"},
	{RoleFacade, "Facade"},
	{RoleClient, "Client"},
	{RoleConfig, "Config"},
	{RolePlugin, "Plugin"},
	{RoleRepository, "Repository"},
	{RoleEntityManager, "EntityManager"},
	{RoleQueryContainer, "QueryContainer"},
	{RoleDependencyProvider, "DependencyProvider"},
	{RoleTest, "Test"},
}

// Has reports whether all roles in other are set.
func (r Role) Has(other Role) bool {
	return other != RoleNone && r&other == other
}

// Any reports whether at least one role in other is set.
func (r Role) Any(other Role) bool {
	return r&other != 0
}

func (r Role) String() string {
	if r == RoleNone {
		return "None"
	}
	var parts []string
	for _, rn := range roleNames {
		if r&rn.role != 0 {
			parts = append(parts, rn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseRole returns the role with the given name, case-insensitively.
func ParseRole(name string) (Role, bool) {
	for _, rn := range roleNames {
		if strings.EqualFold(rn.name, name) {
			return rn.role, true
		}
	}
	return RoleNone, false
}

// Classify tags the class-like declaration at decl from its name, its parent
// class and its namespace. Interfaces are classified like the classes they
// describe, so FooFacadeInterface is a Facade.
func Classify(s *token.Stream, decl int) Role {
	nameIdx, ok := DeclarationName(s, decl)
	if !ok {
		return RoleNone
	}
	name := strings.TrimSuffix(s.Text(nameIdx), "Interface")
	parent, _ := ParentName(s, decl)
	parent = ShortName(parent)
	namespace := Namespace(s, decl)

	role := RoleNone
	for _, rs := range roleSuffixes {
		if strings.HasSuffix(name, rs.suffix) || strings.HasSuffix(parent, rs.suffix) {
			role |= rs.role
			break
		}
	}

	if hasSegment(namespace, "Plugin") {
		role |= RolePlugin
	}
	if strings.HasSuffix(name, "Test") || strings.HasSuffix(parent, "TestCase") ||
		hasSegment(namespace, "Tests") || hasSegment(namespace, "Test") {
		role |= RoleTest
	}
	return role
}

func hasSegment(namespace, segment string) bool {
	for part := range strings.SplitSeq(namespace, "\\") {
		if part == segment {
			return true
		}
	}
	return false
}
