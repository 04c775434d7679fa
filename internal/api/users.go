package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/dbmanager/internal/models"
)

// listUsers handles GET /api/v1/users
func (s *Server) listUsers(c *gin.Context) {
	page, limit := s.parsePagination(c)

	ctx, cancel := s.opContext(c)
	defer cancel()

	users, err := s.db.ListUsers(ctx)
	if err != nil {
		s.errorResponse(c, storeErrorStatus(err), "Failed to list users: "+err.Error())
		return
	}

	total := len(users)
	start := (page - 1) * limit
	end := start + limit

	if start >= total {
		users = []*models.User{}
	} else {
		if end > total {
			end = total
		}
		users = users[start:end]
	}

	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, models.PaginatedResponse{
		Success: true,
		Data:    users,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int64(total),
			TotalPages: totalPages,
		},
	})
}

// createUser handles POST /api/v1/users
func (s *Server) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := s.opContext(c)
	defer cancel()

	id, err := s.db.CreateUser(ctx, req.Name, req.Email, req.Age)
	if err != nil {
		s.errorResponse(c, storeErrorStatus(err), "Failed to create user: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    models.CreatedResponse{ID: id},
	})
}

// deleteUser handles DELETE /api/v1/users/:id
func (s *Server) deleteUser(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := s.opContext(c)
	defer cancel()

	deleted, err := s.db.DeleteUser(ctx, id)
	if err != nil {
		s.errorResponse(c, storeErrorStatus(err), "Failed to delete user: "+err.Error())
		return
	}

	if !deleted {
		s.errorResponse(c, http.StatusNotFound, "User not found: "+id)
		return
	}

	s.successResponse(c, gin.H{"id": id, "deleted": true})
}
