package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// 预置身份后串上角色校验，模拟 /api/battles 的建战路由
func roleTestRouter(claims *util.Claims, required ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set("user", claims)
		}
	})
	router.Use(RoleMiddleware(required...))
	router.POST("/battles", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRoleMiddlewareGatesBattleCreation(t *testing.T) {
	cases := []struct {
		name string
		role model.UserRole
		want int
	}{
		{"student blocked", model.Student, http.StatusForbidden},
		{"tourist blocked", model.Tourist, http.StatusForbidden},
		{"teacher allowed", model.Teacher, http.StatusOK},
		{"super_admin allowed", model.SuperAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := &util.Claims{UserID: 1, Username: "u", Role: tc.role}
			router := roleTestRouter(claims, model.Teacher)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/battles", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRoleMiddlewareRejectsAnonymous(t *testing.T) {
	router := roleTestRouter(nil, model.Teacher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/battles", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHasRoleSuperAdminOverride(t *testing.T) {
	assert.True(t, HasRole(model.SuperAdmin, model.Teacher))
	assert.True(t, HasRole(model.Teacher, model.Teacher))
	assert.False(t, HasRole(model.Student, model.Teacher))
}
