package post

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Avi-17/Z/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func stubAuth(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func newTestApp(svc *Service, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.FiberErrorHandler})
	RegisterRoutes(app.Group("/api/posts"), svc, stubAuth(userID))
	return app
}

func TestCreateHandler(t *testing.T) {
	mock := newMock(t)
	expectAuthor(mock, "user-1", "alice")
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "hello", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	app := newTestApp(newService(mock, &fakeMedia{}), "user-1")

	body, _ := json.Marshal(CreateRequest{Text: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %v", resp.StatusCode, err)
	}

	var created Post
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.Text != "hello" || created.User == nil || created.User.Username != "alice" {
		t.Fatalf("unexpected body %+v", created)
	}
}

func TestCreateHandlerValidationEnvelope(t *testing.T) {
	mock := newMock(t)
	expectAuthor(mock, "user-1", "alice")

	app := newTestApp(newService(mock, &fakeMedia{}), "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/posts/create", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v %v", resp.StatusCode, err)
	}

	var envelope map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope["error"] != "Post must have text or image" {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}

func TestLikeHandlerMessages(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id, img FROM posts`).
		WithArgs("post-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "img"}).AddRow("owner-1", ""))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM post_likes`).
		WithArgs("post-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs("post-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := newTestApp(newService(mock, &fakeMedia{}), "user-2")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/like/post-1", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("like status: %v %v", resp.StatusCode, err)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "You unliked this post" {
		t.Fatalf("unexpected message %v", body)
	}
}

func TestDeleteHandlerNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id, img FROM posts`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "img"}))

	app := newTestApp(newService(mock, &fakeMedia{}), "user-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/ghost", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v %v", resp.StatusCode, err)
	}

	var envelope map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope["error"] != "Post not found" {
		t.Fatalf("unexpected envelope %v", envelope)
	}
}
