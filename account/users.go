package account

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"shopwork/authority"
	"shopwork/bizerror"
	"shopwork/idgen"
	"shopwork/persistence"
	"shopwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"

	ProjectRoleManager = "manager"
	ProjectRoleViewer  = "viewer"

	SystemAdminPermission = "system:admin"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	LoadPermFunc       = LoadPerms
	BootstrapOwnerFunc = BootstrapOwner

	CreateUserFunc          = CreateUser
	QueryUsersFunc          = QueryUsers
	CreateProjectMemberFunc = CreateProjectMember
	QueryProjectMembersFunc = QueryProjectMembers
)

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name     string   `json:"name" gorm:"unique_index"`
	Secret   string   `json:"-"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
}

type ProjectMember struct {
	ID        types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UserID    types.ID `json:"userId"`
	ProjectID types.ID `json:"projectId"`
	Role      string   `json:"role"`
}

type OwnerBootstrapping struct {
	Name     string `json:"name" binding:"required"`
	Secret   string `json:"secret" binding:"required,gte=6"`
	Nickname string `json:"nickname"`
}

type UserCreation struct {
	Name     string `json:"name" binding:"required"`
	Secret   string `json:"secret" binding:"required,gte=6"`
	Nickname string `json:"nickname"`
}

type ProjectMemberCreation struct {
	UserID    types.ID `json:"userId" binding:"required"`
	ProjectID types.ID `json:"projectId" binding:"required"`
	Role      string   `json:"role" binding:"required,oneof=manager viewer"`
}

type ProjectMemberQuery struct {
	ProjectID types.ID `json:"projectId" form:"projectId" binding:"required"`
}

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// BootstrapOwner provisions the very first owner account. It is gated by a
// transactional check that no owner exists yet, so it can not be used by a
// later user to escalate.
func BootstrapOwner(c *OwnerBootstrapping) (*UserInfo, error) {
	var user User
	err1 := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		count := 0
		if err := tx.Model(&User{}).Where(&User{Role: RoleOwner}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return bizerror.ErrOwnerExisted
		}

		user = User{ID: idgen.NextID(userIdWorker), Name: c.Name, Secret: HashSha256(c.Secret),
			Nickname: c.Nickname, Role: RoleOwner}
		return tx.Create(&user).Error
	})
	if err1 != nil {
		return nil, err1
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Role: user.Role}, nil
}

// CreateUser provisions a member account. Only the owner can do this, the
// created user gains no project access until a membership is assigned.
func CreateUser(c *UserCreation, sec *session.Session) (*UserInfo, error) {
	if !sec.Perms.HasRole(SystemAdminPermission) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Secret: HashSha256(c.Secret),
		Nickname: c.Nickname, Role: RoleMember}
	if err := persistence.ActiveDataSourceManager.GormDB().Save(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, Role: user.Role}, nil
}

func QueryUsers(sec *session.Session) (*[]UserInfo, error) {
	var users []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB().Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

// CreateProjectMember assigns a project role to a user. A user holds at most
// one role per project, assigning again replaces the previous role.
func CreateProjectMember(c *ProjectMemberCreation, sec *session.Session) (*ProjectMember, error) {
	if !sec.Perms.HasRole(SystemAdminPermission) {
		return nil, bizerror.ErrForbidden
	}
	if c.Role != ProjectRoleManager && c.Role != ProjectRoleViewer {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("unknown project role " + c.Role)}
	}

	var member ProjectMember
	err1 := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where(&User{ID: c.UserID}).First(&user).Error; err != nil {
			return err
		}

		existing := ProjectMember{}
		err := tx.Where(&ProjectMember{UserID: c.UserID, ProjectID: c.ProjectID}).First(&existing).Error
		if err == nil {
			if err := tx.Model(&ProjectMember{}).Where(&ProjectMember{ID: existing.ID}).
				Update(&ProjectMember{Role: c.Role}).Error; err != nil {
				return err
			}
			member = existing
			member.Role = c.Role
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member = ProjectMember{ID: idgen.NextID(userIdWorker), UserID: c.UserID, ProjectID: c.ProjectID, Role: c.Role}
		return tx.Create(&member).Error
	})
	if err1 != nil {
		return nil, err1
	}
	return &member, nil
}

func QueryProjectMembers(q *ProjectMemberQuery, sec *session.Session) (*[]ProjectMember, error) {
	if !sec.Perms.HasProjectViewPerm(q.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	var members []ProjectMember
	if err := persistence.ActiveDataSourceManager.GormDB().
		Where(&ProjectMember{ProjectID: q.ProjectID}).Find(&members).Error; err != nil {
		return nil, err
	}
	return &members, nil
}

func Authenticate(name, secret string) (*session.Identity, error) {
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&User{Name: name, Secret: HashSha256(secret)}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}
	return &session.Identity{ID: user.ID, Name: user.Name, Nickname: user.Nickname}, nil
}

func LoadPerms(uid types.ID) (authority.Permissions, authority.ProjectRoles) {
	perms := authority.Permissions{}
	projectRoles := authority.ProjectRoles{}

	db := persistence.ActiveDataSourceManager.GormDB()
	user := User{}
	if err := db.Where(&User{ID: uid}).First(&user).Error; err == nil && user.Role == RoleOwner {
		perms = append(perms, SystemAdminPermission)
	}

	var members []ProjectMember
	if err := db.Where(&ProjectMember{UserID: uid}).Find(&members).Error; err != nil {
		return perms, projectRoles
	}
	for _, member := range members {
		perms = append(perms, member.Role+"_"+member.ProjectID.String())
		projectRoles = append(projectRoles, authority.ProjectRole{ProjectID: member.ProjectID, Role: member.Role})
	}
	return perms, projectRoles
}
