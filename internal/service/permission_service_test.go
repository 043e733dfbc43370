package service

import (
	"testing"

	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleGrant(screenID uint64, c, r, u, d bool) models.RoleScreenAccess {
	return models.RoleScreenAccess{ScreenID: screenID, CanCreate: c, CanRead: r, CanUpdate: u, CanDelete: d}
}

func userGrant(screenID uint64, c, r, u, d bool) models.UserScreenAccess {
	return models.UserScreenAccess{ScreenID: screenID, CanCreate: c, CanRead: r, CanUpdate: u, CanDelete: d}
}

func TestMergeEffectiveGrants(t *testing.T) {
	t.Run("仅角色授权时沿用角色授权", func(t *testing.T) {
		effective := mergeEffectiveGrants(
			[]models.RoleScreenAccess{roleGrant(1, true, true, false, false)},
			nil,
		)

		require.Len(t, effective, 1)
		assert.Equal(t, vo.GrantItem{ScreenID: 1, CanCreate: true, CanRead: true}, effective[1])
	})

	t.Run("用户授权行整行覆盖角色授权", func(t *testing.T) {
		effective := mergeEffectiveGrants(
			[]models.RoleScreenAccess{roleGrant(1, true, true, true, true)},
			[]models.UserScreenAccess{userGrant(1, false, true, false, false)},
		)

		// 覆盖是整行生效的，角色的create/update/delete不保留
		assert.Equal(t, vo.GrantItem{ScreenID: 1, CanRead: true}, effective[1])
	})

	t.Run("全false的用户授权行可以撤销角色授权", func(t *testing.T) {
		effective := mergeEffectiveGrants(
			[]models.RoleScreenAccess{roleGrant(1, true, true, true, true)},
			[]models.UserScreenAccess{userGrant(1, false, false, false, false)},
		)

		grant, ok := effective[1]
		require.True(t, ok)
		assert.False(t, grant.CanRead)
		assert.False(t, grant.CanCreate)
	})

	t.Run("用户授权可以扩展角色没有的屏幕", func(t *testing.T) {
		effective := mergeEffectiveGrants(
			[]models.RoleScreenAccess{roleGrant(1, false, true, false, false)},
			[]models.UserScreenAccess{userGrant(2, true, true, true, false)},
		)

		require.Len(t, effective, 2)
		assert.True(t, effective[2].CanUpdate)
	})
}

func TestBuildScreenTree(t *testing.T) {
	screens := []models.Screen{
		{ID: 1, ParentID: 0, Title: "Cadastros", Key: "registrations", Order: 1, Active: true},
		{ID: 2, ParentID: 1, Title: "Usuários", Key: "users", Order: 2, Active: true},
		{ID: 3, ParentID: 1, Title: "Perfis", Key: "roles", Order: 1, Active: true},
		{ID: 4, ParentID: 0, Title: "Relatórios", Key: "reports", Order: 2, Active: true},
	}

	t.Run("无可读授权的屏幕被剪枝", func(t *testing.T) {
		effective := map[uint64]vo.GrantItem{
			2: {ScreenID: 2, CanRead: true},
		}

		roots := buildScreenTree(screens, effective)

		require.Len(t, roots, 1)
		assert.Equal(t, uint64(1), roots[0].ScreenID)
		require.Len(t, roots[0].Children, 1)
		assert.Equal(t, uint64(2), roots[0].Children[0].ScreenID)
	})

	t.Run("锚点的祖先强制只读保留", func(t *testing.T) {
		// 父节点1本身无授权，但子节点2可读
		effective := map[uint64]vo.GrantItem{
			2: {ScreenID: 2, CanRead: true, CanUpdate: true},
		}

		roots := buildScreenTree(screens, effective)

		require.Len(t, roots, 1)
		parent := roots[0]
		assert.True(t, parent.CanRead)
		assert.False(t, parent.CanCreate)
		assert.False(t, parent.CanUpdate)
		assert.False(t, parent.CanDelete)
	})

	t.Run("祖先自身的授权不被覆盖", func(t *testing.T) {
		// 父节点1不可读但可更新，子节点2把它拉进树后update保留
		effective := map[uint64]vo.GrantItem{
			1: {ScreenID: 1, CanUpdate: true},
			2: {ScreenID: 2, CanRead: true},
		}

		roots := buildScreenTree(screens, effective)

		require.Len(t, roots, 1)
		assert.True(t, roots[0].CanRead)
		assert.True(t, roots[0].CanUpdate)
	})

	t.Run("父节点不可见时子节点提升为根", func(t *testing.T) {
		// 屏幕5的父节点99不在启用屏幕集合中
		orphaned := append(screens, models.Screen{
			ID: 5, ParentID: 99, Title: "Auditoria", Key: "audit", Order: 3, Active: true,
		})
		effective := map[uint64]vo.GrantItem{
			5: {ScreenID: 5, CanRead: true},
		}

		roots := buildScreenTree(orphaned, effective)

		require.Len(t, roots, 1)
		assert.Equal(t, uint64(5), roots[0].ScreenID)
	})

	t.Run("同级按Order排序", func(t *testing.T) {
		effective := map[uint64]vo.GrantItem{
			1: {ScreenID: 1, CanRead: true},
			2: {ScreenID: 2, CanRead: true},
			3: {ScreenID: 3, CanRead: true},
			4: {ScreenID: 4, CanRead: true},
		}

		roots := buildScreenTree(screens, effective)

		require.Len(t, roots, 2)
		assert.Equal(t, uint64(1), roots[0].ScreenID)
		assert.Equal(t, uint64(4), roots[1].ScreenID)

		children := roots[0].Children
		require.Len(t, children, 2)
		assert.Equal(t, uint64(3), children[0].ScreenID) // Order=1
		assert.Equal(t, uint64(2), children[1].ScreenID) // Order=2
	})

	t.Run("空授权返回空树", func(t *testing.T) {
		roots := buildScreenTree(screens, map[uint64]vo.GrantItem{})
		assert.Empty(t, roots)
	})
}

func TestBuildScreenTreeSystemAdmin(t *testing.T) {
	screens := []models.Screen{
		{ID: 1, ParentID: 0, Title: "Cadastros", Key: "registrations", Order: 1, Active: true},
		{ID: 2, ParentID: 1, Title: "Usuários", Key: "users", Order: 1, Active: true},
		{ID: 3, ParentID: 0, Title: "Relatórios", Key: "reports", Order: 2, Active: true},
	}

	// 系统管理员路径：全部启用屏幕进入树，动作全部放行
	roots := buildScreenTree(screens, fullGrants(screens))

	require.Len(t, roots, 2)
	assert.Equal(t, uint64(1), roots[0].ScreenID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, uint64(3), roots[1].ScreenID)

	var walk func(nodes []*vo.ScreenPermissionNode) int
	walk = func(nodes []*vo.ScreenPermissionNode) int {
		count := 0
		for _, node := range nodes {
			assert.True(t, node.CanCreate)
			assert.True(t, node.CanRead)
			assert.True(t, node.CanUpdate)
			assert.True(t, node.CanDelete)
			count += 1 + walk(node.Children)
		}
		return count
	}
	assert.Equal(t, len(screens), walk(roots))
}

func TestSortScreenNodes(t *testing.T) {
	nodes := []*vo.ScreenPermissionNode{
		{ScreenPermission: vo.ScreenPermission{ScreenID: 3, Order: 2}},
		{ScreenPermission: vo.ScreenPermission{ScreenID: 2, Order: 1}},
		{ScreenPermission: vo.ScreenPermission{ScreenID: 1, Order: 2}},
	}

	sortScreenNodes(nodes)

	// Order优先，相同Order按ID
	assert.Equal(t, uint64(2), nodes[0].ScreenID)
	assert.Equal(t, uint64(1), nodes[1].ScreenID)
	assert.Equal(t, uint64(3), nodes[2].ScreenID)
}
