package service

import (
	"context"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis 置空，限流走查库回落路径
func (e *testEnv) newCommentService() *CommentService {
	return NewCommentService(e.comments, e.sites, nil)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "skopje-fortress", "Skopje Fortress")

	comment, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID,
		UserName:  "visitor",
		Content:   "Beautiful place!",
		Images:    []string{"/uploads/a.jpg"},
	}, nil)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Nil(t, comment.UserID)
	assert.Equal(t, []string{"/uploads/a.jpg"}, comment.ImageList())
}

func TestCreateCommentAttachesUserID(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "stobi", "Stobi")
	user := env.createUser(t, "member", model.Student)

	comment, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID,
		UserName:  "member",
		Content:   "hello",
	}, &util.Claims{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)
	require.NotNil(t, comment.UserID)
	assert.Equal(t, user.ID, *comment.UserID)
}

func TestCreateCommentRateLimited(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "heraclea", "Heraclea")

	_, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "chatty", Content: "first",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "chatty", Content: "second",
	}, nil)
	assert.ErrorIs(t, err, util.ErrRateLimited)

	// 不同用户不受影响
	_, err = svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "other", Content: "fine",
	}, nil)
	assert.NoError(t, err)
}

func TestCreateCommentRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "ohrid", "Ohrid")

	_, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "u", Content: "c",
		Images: []string{"1", "2", "3", "4"},
	}, nil)
	assert.ErrorIs(t, err, util.ErrTooManyImages)

	_, err = svc.Create(context.Background(), CommentInput{
		SiteRefID: 9999, UserName: "u", Content: "c",
	}, nil)
	assert.ErrorIs(t, err, util.ErrSiteNotFound)
}

func TestReportCommentDedup(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "kokino", "Kokino")

	comment, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "author", Content: "spam?",
	}, nil)
	require.NoError(t, err)

	reported, err := svc.Report(comment.ID, "watcher")
	require.NoError(t, err)
	assert.True(t, reported.IsReported)
	assert.Equal(t, 1, reported.ReportCount)

	// 同一人重复举报不增加计数
	again, err := svc.Report(comment.ID, "watcher")
	assert.ErrorIs(t, err, util.ErrAlreadyReported)
	assert.Equal(t, 1, again.ReportCount)

	second, err := svc.Report(comment.ID, "another")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ReportCount)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "bargala", "Bargala")

	comment, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "owner", Content: "mine",
	}, nil)
	require.NoError(t, err)

	// 路人删不了
	err = svc.Delete(comment.ID, "stranger", model.Student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 教师可以删任意留言
	require.NoError(t, svc.Delete(comment.ID, "moderator", model.Teacher))
	_, err = env.comments.FindByID(comment.ID)
	assert.ErrorIs(t, err, util.ErrCommentNotFound)
}

func TestDeleteOwnComment(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "plaosnik", "Plaosnik")

	comment, err := svc.Create(context.Background(), CommentInput{
		SiteRefID: site.ID, UserName: "owner", Content: "mine",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(comment.ID, "owner", model.Student))
}

func TestListCommentsFilters(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	siteA := env.createSite(t, "site-a", "Site A")
	siteB := env.createSite(t, "site-b", "Site B")

	seed := []model.Comment{
		{SiteRefID: siteA.ID, UserName: "alice", Content: "a1"},
		{SiteRefID: siteA.ID, UserName: "bob", Content: "a2"},
		{SiteRefID: siteB.ID, UserName: "alice", Content: "b1"},
	}
	for i := range seed {
		require.NoError(t, env.comments.Create(&seed[i]))
	}

	all, total, err := svc.List(ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	bySite, total, err := svc.List(ListInput{SiteRefID: siteA.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, c := range bySite {
		assert.Equal(t, siteA.ID, c.SiteRefID)
	}

	byUser, total, err := svc.List(ListInput{UserName: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, c := range byUser {
		assert.Equal(t, "alice", c.UserName)
	}

	// 晚于今天的起始日期过滤掉全部
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	_, total, err = svc.List(ListInput{DateFrom: tomorrow})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestListReportedOrdering(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newCommentService()
	site := env.createSite(t, "treskavec", "Treskavec")

	mild := &model.Comment{SiteRefID: site.ID, UserName: "a", Content: "mild"}
	bad := &model.Comment{SiteRefID: site.ID, UserName: "b", Content: "bad"}
	clean := &model.Comment{SiteRefID: site.ID, UserName: "c", Content: "clean"}
	for _, c := range []*model.Comment{mild, bad, clean} {
		require.NoError(t, env.comments.Create(c))
	}

	_, err := svc.Report(mild.ID, "r1")
	require.NoError(t, err)
	for _, r := range []string{"r1", "r2", "r3"} {
		_, err = svc.Report(bad.ID, r)
		require.NoError(t, err)
	}

	reported, total, err := svc.ListReported(1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reported, 2)
	assert.Equal(t, bad.ID, reported[0].ID)
	assert.Equal(t, 3, reported[0].ReportCount)
}
