// Teacher HTTP handlers.
//
//   - GET    /teachers
//   - POST   /teachers       (Idempotency-Key aware)
//   - GET    /teachers/{id}
//   - PUT    /teachers/{id}  (partial update)
//   - DELETE /teachers/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// ListTeachers godoc
// @ID          listTeachers
// @Summary     List teachers
// @Tags        Teachers
// @Produce     json
// @Success     200  {array}   domain.Teacher
// @Failure     404  {object}  handlers.ErrorResponse  "No teachers found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /teachers [get]
func (h *Handlers) ListTeachers(c *gin.Context) {
	items, err := h.teachers.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetTeacher godoc
// @ID          getTeacher
// @Summary     Get a teacher
// @Tags        Teachers
// @Produce     json
// @Param       id   path      int  true  "Teacher ID"  minimum(1)
// @Success     200  {object}  domain.Teacher
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Teacher is not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /teachers/{id} [get]
func (h *Handlers) GetTeacher(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	t, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// CreateTeacher godoc
// @ID          createTeacher
// @Summary     Create a teacher
// @Description Creates a teacher. Repeating the request with the same Idempotency-Key returns the first result; a different body under that key is rejected.
// @Tags        Teachers
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                false  "Client key for safe retries"  example(7f9c2b1e-teacher)
// @Param       body             body    domain.CreateTeacher  true  "Teacher payload"
// @Success     200  {object}  domain.Teacher
// @Header      200  {string}  Idempotency-Replayed  "true when served from an earlier request"
// @Failure     400  {object}  handlers.ErrorResponse  "Please provide valid json input"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /teachers [post]
func (h *Handlers) CreateTeacher(c *gin.Context) {
	var in domain.CreateTeacher
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	t, replayed, err := h.teachers.Create(c.Request.Context(), idemKey(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	markReplay(c, replayed)
	ok(c, http.StatusOK, t)
}

// UpdateTeacher godoc
// @ID          updateTeacher
// @Summary     Partially update a teacher
// @Description Fields absent from the body keep their stored value.
// @Tags        Teachers
// @Accept      json
// @Produce     json
// @Param       id    path  int                   true  "Teacher ID"  minimum(1)
// @Param       body  body  domain.UpdateTeacher  true  "Fields to change"
// @Success     200  {object}  domain.Teacher
// @Failure     400  {object}  handlers.ErrorResponse  "Please provide valid json input"
// @Failure     404  {object}  handlers.ErrorResponse  "Teacher id not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /teachers/{id} [put]
func (h *Handlers) UpdateTeacher(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var patch domain.UpdateTeacher
	if err := bindJSON(c, &patch); err != nil {
		fail(c, err)
		return
	}
	t, err := h.teachers.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteTeacher godoc
// @ID          deleteTeacher
// @Summary     Delete a teacher
// @Tags        Teachers
// @Produce     json
// @Param       id   path      int  true  "Teacher ID"  minimum(1)
// @Success     200  {string}  string  "Deleted 1 record(s)"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Teacher is not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /teachers/{id} [delete]
func (h *Handlers) DeleteTeacher(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	n, err := h.teachers.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if n == 0 {
		fail(c, domain.NotFound("Teacher is not found"))
		return
	}
	ok(c, http.StatusOK, deletedMessage(n))
}
