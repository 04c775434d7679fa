package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/dbmanager/internal/models"
)

// listUserPosts handles GET /api/v1/users/:id/posts
func (s *Server) listUserPosts(c *gin.Context) {
	ctx, cancel := s.opContext(c)
	defer cancel()

	posts, err := s.db.ListUserPosts(ctx, c.Param("id"))
	if err != nil {
		s.errorResponse(c, storeErrorStatus(err), "Failed to list posts: "+err.Error())
		return
	}

	if posts == nil {
		posts = []*models.Post{}
	}

	s.successResponse(c, posts)
}

// createPost handles POST /api/v1/users/:id/posts
func (s *Server) createPost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := s.opContext(c)
	defer cancel()

	id, err := s.db.CreatePost(ctx, c.Param("id"), req.Title, req.Content)
	if err != nil {
		s.errorResponse(c, storeErrorStatus(err), "Failed to create post: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    models.CreatedResponse{ID: id},
	})
}
