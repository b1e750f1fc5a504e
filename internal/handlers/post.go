package handlers

import (
	"net/http"

	"buslink/internal/middleware"
	"buslink/internal/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
	likes *services.LikeService
}

func NewPostHandler(posts *services.PostService, likes *services.LikeService) *PostHandler {
	return &PostHandler{posts: posts, likes: likes}
}

// List serves the top-level feed, or the comments of ?parentId=.
func (h *PostHandler) List(c *gin.Context) {
	var parentID *string
	if pid := c.Query("parentId"); pid != "" {
		parentID = &pid
	}

	posts, err := h.posts.GetAllComments(c.Request.Context(), parentID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) ListByUser(c *gin.Context) {
	posts, err := h.posts.GetPostsByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	post, err := h.posts.CreatePost(c.Request.Context(), user.ID, req.Content, req.ParentID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Likes(c *gin.Context) {
	likes, err := h.likes.GetLikesByPostID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *PostHandler) Like(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	like, err := h.likes.Like(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	deleted, err := h.likes.Unlike(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
