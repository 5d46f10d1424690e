package authority_test

import (
	"shopwork/authority"
	"testing"

	. "github.com/onsi/gomega"
)

func TestPermissions(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should match roles case insensitively", func(t *testing.T) {
		perms := authority.Permissions{"manager_1", "system:admin"}
		Expect(perms.HasRole("MANAGER_1")).To(BeTrue())
		Expect(perms.HasRole("viewer_1")).To(BeFalse())
	})

	t.Run("should detect global view role by system prefix", func(t *testing.T) {
		Expect(authority.Permissions{"system:admin"}.HasGlobalViewRole()).To(BeTrue())
		Expect(authority.Permissions{"manager_1"}.HasGlobalViewRole()).To(BeFalse())
		Expect(authority.Permissions{}.HasGlobalViewRole()).To(BeFalse())
	})

	t.Run("should match role suffix", func(t *testing.T) {
		perms := authority.Permissions{"manager_10"}
		Expect(perms.HasRoleSuffix("_10")).To(BeTrue())
		Expect(perms.HasRoleSuffix("_1")).To(BeFalse())
	})

	t.Run("should grant project view to project members and system roles", func(t *testing.T) {
		Expect(authority.Permissions{"viewer_1"}.HasProjectViewPerm(1)).To(BeTrue())
		Expect(authority.Permissions{"viewer_1"}.HasProjectViewPerm(2)).To(BeFalse())
		Expect(authority.Permissions{"system:admin"}.HasProjectViewPerm(2)).To(BeTrue())
	})
}

func TestProjectRoles(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should report project membership", func(t *testing.T) {
		roles := authority.ProjectRoles{{ProjectID: 1, Role: "manager"}, {ProjectID: 2, Role: "viewer"}}
		Expect(roles.HasProject(1)).To(BeTrue())
		Expect(roles.HasProject(2)).To(BeTrue())
		Expect(roles.HasProject(3)).To(BeFalse())
	})
}
