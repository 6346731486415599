// Course HTTP handlers. Courses are addressed through their owning teacher:
//
//   - POST   /courses/                                (Idempotency-Key aware)
//   - GET    /courses/{teacher_id}
//   - GET    /courses/{teacher_id}/{course_id}
//   - PUT    /courses/{teacher_id}/{course_id}        (partial update)
//   - DELETE /courses/{teacher_id}/{course_id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// coursePath parses both ids of a course route.
func coursePath(c *gin.Context) (teacherID, courseID int64, err error) {
	if teacherID, err = pathID(c, "teacher_id"); err != nil {
		return 0, 0, err
	}
	if courseID, err = pathID(c, "course_id"); err != nil {
		return 0, 0, err
	}
	return teacherID, courseID, nil
}

// CreateCourse godoc
// @ID          createCourse
// @Summary     Create a course
// @Description Creates a course for the teacher named in the body. Repeating the request with the same Idempotency-Key returns the first result; a different body under that key is rejected.
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string               false  "Client key for safe retries"  example(7f9c2b1e-course)
// @Param       body             body    domain.CreateCourse  true  "Course payload"
// @Success     200  {object}  domain.Course
// @Header      200  {string}  Idempotency-Replayed  "true when served from an earlier request"
// @Failure     400  {object}  handlers.ErrorResponse  "Please provide valid json input"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /courses/ [post]
func (h *Handlers) CreateCourse(c *gin.Context) {
	var in domain.CreateCourse
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	course, replayed, err := h.courses.Create(c.Request.Context(), idemKey(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	markReplay(c, replayed)
	ok(c, http.StatusOK, course)
}

// ListCourses godoc
// @ID          listCourses
// @Summary     List the courses of a teacher
// @Tags        Courses
// @Produce     json
// @Param       teacher_id  path      int  true  "Teacher ID"  minimum(1)
// @Success     200  {array}   domain.Course
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found for teacher"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /courses/{teacher_id} [get]
func (h *Handlers) ListCourses(c *gin.Context) {
	teacherID, err := pathID(c, "teacher_id")
	if err != nil {
		fail(c, err)
		return
	}
	items, err := h.courses.List(c.Request.Context(), teacherID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetCourse godoc
// @ID          getCourse
// @Summary     Get a course of a teacher
// @Tags        Courses
// @Produce     json
// @Param       teacher_id  path      int  true  "Teacher ID"  minimum(1)
// @Param       course_id   path      int  true  "Course ID"   minimum(1)
// @Success     200  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Course Id or Teacher Id is not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /courses/{teacher_id}/{course_id} [get]
func (h *Handlers) GetCourse(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		fail(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), teacherID, courseID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, course)
}

// UpdateCourse godoc
// @ID          updateCourse
// @Summary     Partially update a course
// @Description Fields absent from the body keep their stored value. The owning teacher cannot be changed.
// @Tags        Courses
// @Accept      json
// @Produce     json
// @Param       teacher_id  path  int                  true  "Teacher ID"  minimum(1)
// @Param       course_id   path  int                  true  "Course ID"   minimum(1)
// @Param       body        body  domain.UpdateCourse  true  "Fields to change"
// @Success     200  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse  "Please provide valid json input"
// @Failure     404  {object}  handlers.ErrorResponse  "Course id not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /courses/{teacher_id}/{course_id} [put]
func (h *Handlers) UpdateCourse(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		fail(c, err)
		return
	}
	var patch domain.UpdateCourse
	if err := bindJSON(c, &patch); err != nil {
		fail(c, err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), teacherID, courseID, patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, course)
}

// DeleteCourse godoc
// @ID          deleteCourse
// @Summary     Delete a course of a teacher
// @Tags        Courses
// @Produce     json
// @Param       teacher_id  path      int  true  "Teacher ID"  minimum(1)
// @Param       course_id   path      int  true  "Course ID"   minimum(1)
// @Success     200  {string}  string  "Deleted 1 record(s)"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Course is not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Database error"
// @Router      /courses/{teacher_id}/{course_id} [delete]
func (h *Handlers) DeleteCourse(c *gin.Context) {
	teacherID, courseID, err := coursePath(c)
	if err != nil {
		fail(c, err)
		return
	}
	n, err := h.courses.Delete(c.Request.Context(), teacherID, courseID)
	if err != nil {
		fail(c, err)
		return
	}
	if n == 0 {
		fail(c, domain.NotFound("Course is not found"))
		return
	}
	ok(c, http.StatusOK, deletedMessage(n))
}
