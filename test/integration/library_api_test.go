package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"library-service/internal/adapter/gin/handler"
	"library-service/internal/adapter/gin/router"
	"library-service/internal/adapter/repository/jsonfile"
	"library-service/internal/usecase/book"
	"library-service/internal/usecase/user"
	"library-service/pkg/jsonstore"
)

// LibraryAPITestSuite wires the real stack — JSON store in a temp dir, file
// repositories, usecases, handlers, router — and drives it over HTTP.
type LibraryAPITestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *LibraryAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T())

	store, err := jsonstore.New(s.T().TempDir())
	s.Require().NoError(err)

	bookRepo, err := jsonfile.NewBookRepo(store, log)
	s.Require().NoError(err)
	userRepo, err := jsonfile.NewUserRepo(store, log)
	s.Require().NoError(err)

	userUC := user.New(userRepo, log)
	bookUC := book.New(bookRepo, userRepo, log)

	s.router = router.SetupRouter(
		handler.NewBookHandler(bookUC, log),
		handler.NewUserHandler(userUC, log),
		log,
	)
}

func (s *LibraryAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *LibraryAPITestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

func (s *LibraryAPITestSuite) createBook(title, author string) map[string]any {
	w := s.do("POST", "/books", gin.H{"title": title, "author": author})
	s.Require().Equal(http.StatusCreated, w.Code)
	var b map[string]any
	s.decode(w, &b)
	return b
}

func (s *LibraryAPITestSuite) createUser(name, email string) map[string]any {
	w := s.do("POST", "/users", gin.H{"name": name, "email": email})
	s.Require().Equal(http.StatusCreated, w.Code)
	var u map[string]any
	s.decode(w, &u)
	return u
}

// TestLendReturnCycle walks the whole lending state machine over HTTP.
func (s *LibraryAPITestSuite) TestLendReturnCycle() {
	dune := s.createBook("Dune", "Herbert")
	s.Nil(dune["lentTo"])
	bookID := dune["id"].(string)

	alice := s.createUser("Alice", "a@x.com")
	bob := s.createUser("Bob", "b@x.com")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	// lend to Alice
	w := s.do("POST", "/books/"+bookID+"/lend", gin.H{"userId": aliceID})
	s.Equal(http.StatusOK, w.Code)
	var lendResp struct {
		Message string         `json:"message"`
		Book    map[string]any `json:"book"`
	}
	s.decode(w, &lendResp)
	s.Contains(lendResp.Message, "Dune")
	s.Contains(lendResp.Message, "Alice")
	s.Equal(aliceID, lendResp.Book["lentTo"])
	s.NotNil(lendResp.Book["lentDate"])

	// a second lend attempt by another user is rejected
	w = s.do("POST", "/books/"+bookID+"/lend", gin.H{"userId": bobID})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "already lent out")

	// the wrong user cannot return it
	w = s.do("POST", "/books/"+bookID+"/return", gin.H{"userId": bobID})
	s.Equal(http.StatusForbidden, w.Code)

	// the book is still lent to Alice
	w = s.do("GET", "/books/"+bookID, nil)
	s.Equal(http.StatusOK, w.Code)
	var current map[string]any
	s.decode(w, &current)
	s.Equal(aliceID, current["lentTo"])

	// Alice returns it
	w = s.do("POST", "/books/"+bookID+"/return", gin.H{"userId": aliceID})
	s.Equal(http.StatusOK, w.Code)
	var returnResp struct {
		Message string         `json:"message"`
		Book    map[string]any `json:"book"`
	}
	s.decode(w, &returnResp)
	s.Contains(returnResp.Message, "Alice")
	s.Nil(returnResp.Book["lentTo"])
	s.Equal(bookID, returnResp.Book["id"])

	// the lent date survives the return as residual evidence
	w = s.do("GET", "/books/"+bookID, nil)
	s.decode(w, &current)
	s.Nil(current["lentTo"])
	s.NotNil(current["lentDate"])
	s.NotNil(current["returnDate"])
}

// TestDuplicateEmail covers the email uniqueness scenario.
func (s *LibraryAPITestSuite) TestDuplicateEmail() {
	alice := s.createUser("Alice", "a@x.com")

	w := s.do("POST", "/users", gin.H{"name": "Mallory", "email": "a@x.com"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email already in use", w.Body.String())

	// the first record is unmodified
	w = s.do("GET", "/users/"+alice["id"].(string), nil)
	s.Equal(http.StatusOK, w.Code)
	var u map[string]any
	s.decode(w, &u)
	s.Equal("Alice", u["name"])
}

func (s *LibraryAPITestSuite) TestCreateThenGetRoundTrip() {
	created := s.createBook("Dune", "Herbert")

	w := s.do("GET", "/books/"+created["id"].(string), nil)
	s.Equal(http.StatusOK, w.Code)
	var got map[string]any
	s.decode(w, &got)
	s.Equal(created, got)
}

func (s *LibraryAPITestSuite) TestLendUnknownBookAndUser() {
	w := s.do("POST", "/books/nope/lend", gin.H{"userId": "whoever"})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Book not found", w.Body.String())

	dune := s.createBook("Dune", "Herbert")
	w = s.do("POST", "/books/"+dune["id"].(string)+"/lend", gin.H{"userId": "nope"})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User not found", w.Body.String())
}

func (s *LibraryAPITestSuite) TestUpdateBookFalsyFieldsSkipped() {
	created := s.createBook("Dune", "Herbert")
	bookID := created["id"].(string)

	// an empty title is "not provided", not "clear the title"
	w := s.do("PUT", "/books/"+bookID, gin.H{"title": "", "genre": "sci-fi"})
	s.Equal(http.StatusOK, w.Code)
	var updated map[string]any
	s.decode(w, &updated)
	s.Equal("Dune", updated["title"])
	s.Equal("sci-fi", updated["genre"])
}

func (s *LibraryAPITestSuite) TestDeleteBookAlwaysNoContent() {
	created := s.createBook("Dune", "Herbert")
	bookID := created["id"].(string)

	s.Equal(http.StatusNoContent, s.do("DELETE", "/books/"+bookID, nil).Code)
	s.Equal(http.StatusNoContent, s.do("DELETE", "/books/"+bookID, nil).Code)
	s.Equal(http.StatusNotFound, s.do("GET", "/books/"+bookID, nil).Code)
}

func (s *LibraryAPITestSuite) TestHealthAndGreeting() {
	s.Equal(http.StatusOK, s.do("GET", "/health", nil).Code)
	s.Equal(http.StatusOK, s.do("GET", "/", nil).Code)
}

func TestLibraryAPITestSuite(t *testing.T) {
	suite.Run(t, new(LibraryAPITestSuite))
}
