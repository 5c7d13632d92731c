package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/lending/internal/service"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/Astemirdum/library-lending/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-lending/lending/internal/handler/mocks"
)

var day0 = model.NewDate(2024, time.March, 1)

type response struct {
	expectedCode int
	expectedBody string
}

func newEcho(h *handler.Handler) *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/transactions/issue-book", h.IssueBook)
	e.POST("/transactions/return-book", h.ReturnBook)
	e.POST("/transactions/pay-fine", h.PayFine)
	e.GET("/transactions/book-available", h.BookAvailable)
	e.GET("/reports/user-transactions/:userId", h.UserTransactions)
	e.GET("/reports/overdue-returns", h.OverdueReturns)
	return e
}

func serve(t *testing.T, mockBehavior func(r *service_mocks.MockLendingService), method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLendingService(c)
	mockBehavior(svc)

	h := handler.New(svc, zap.NewExample().Named("test"), nil)
	e := newEcho(h)

	r := httptest.NewRequest(method, target, http.NoBody)
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_IssueBook(t *testing.T) {
	t.Parallel()
	req := model.IssueBookRequest{UserID: 1, BookID: 2, IssueDate: day0}

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLendingService)
		response     response
	}{
		{
			name: "ok",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Issue(gomock.Any(), req).
					Return(model.IssueResponse{
						Message:       "Book issued successfully",
						TransactionID: 5,
						BookName:      "Dune",
						Author:        "Frank Herbert",
						IssueDate:     day0,
						ReturnDate:    day0.AddDays(15),
						DueDate:       day0.AddDays(15),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Book issued successfully","transaction_id":5,"book_name":"Dune","author":"Frank Herbert","issue_date":"2024-03-01","return_date":"2024-03-16","due_date":"2024-03-16"}`,
			},
		},
		{
			name:         "err. issue date required",
			body:         `{"user_id":1,"book_id":2}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"missing_field","message":"issue_date is required"}`,
			},
		},
		{
			name:         "err. user id required",
			body:         `{"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name:         "err. malformed date",
			body:         `{"user_id":1,"book_id":2,"issue_date":"01/03/2024"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "err. user not found",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Issue(gomock.Any(), req).Return(model.IssueResponse{}, errs.ErrUserNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"kind":"NotFound","reason":"user_not_found","message":"User not found"}`,
			},
		},
		{
			name: "err. book unavailable",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Issue(gomock.Any(), req).Return(model.IssueResponse{}, errs.ErrBookUnavailable)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"kind":"Conflict","reason":"book_unavailable","message":"Book not available"}`,
			},
		},
		{
			name: "err. issue date in past",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Issue(gomock.Any(), req).Return(model.IssueResponse{}, errs.ErrIssueDateInPast)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"issue_date_in_past","message":"Issue date cannot be lesser than today"}`,
			},
		},
		{
			name: "err. membership required",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Issue(gomock.Any(), req).Return(model.IssueResponse{}, errors.Wrap(errs.ErrMembershipRequired, "issue"))
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"kind":"PolicyViolation","reason":"membership_required","message":"Active membership required"}`,
			},
		},
		{
			name: "err. internal",
			body: `{"user_id":1,"book_id":2,"issue_date":"2024-03-01"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().Issue(gomock.Any(), req).Return(model.IssueResponse{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, http.MethodPost, "/transactions/issue-book", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	req := model.ReturnBookRequest{TransactionID: 5, SerialNo: "B-001", ReturnDate: day0.AddDays(20)}

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLendingService)
		response     response
	}{
		{
			name: "ok",
			body: `{"transaction_id":5,"serial_no":"B-001","return_date":"2024-03-21"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().InitiateReturn(gomock.Any(), req).Return(model.FineQuote{
					Message:            "Proceed to pay fine page",
					TransactionID:      5,
					BookName:           "Dune",
					Author:             "Frank Herbert",
					SerialNo:           "B-001",
					IssueDate:          day0,
					ReturnDate:         day0.AddDays(15),
					SelectedReturnDate: day0.AddDays(20),
					Fine:               50,
				}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Proceed to pay fine page","transaction_id":5,"book_name":"Dune","author":"Frank Herbert","serial_no":"B-001","issue_date":"2024-03-01","return_date":"2024-03-16","selected_return_date":"2024-03-21","fine":50}`,
			},
		},
		{
			name:         "err. return date required",
			body:         `{"transaction_id":5,"serial_no":"B-001"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"missing_field","message":"return_date is required"}`,
			},
		},
		{
			name: "err. serial mismatch",
			body: `{"transaction_id":5,"serial_no":"B-001","return_date":"2024-03-21"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().InitiateReturn(gomock.Any(), req).Return(model.FineQuote{}, errs.ErrSerialMismatch)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"serial_mismatch","message":"Serial number mismatch"}`,
			},
		},
		{
			name: "err. transaction not found",
			body: `{"transaction_id":5,"serial_no":"B-001","return_date":"2024-03-21"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().InitiateReturn(gomock.Any(), req).Return(model.FineQuote{}, errs.ErrTransactionNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"kind":"NotFound","reason":"transaction_not_found","message":"Active transaction not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, http.MethodPost, "/transactions/return-book", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_PayFine(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLendingService)
		response     response
	}{
		{
			name: "ok",
			body: `{"transaction_id":5,"fine_paid":true,"remarks":"cash"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					SettleFine(gomock.Any(), model.PayFineRequest{TransactionID: 5, FinePaid: true, Remarks: "cash"}).
					Return(model.Confirmation{Message: "Book returned successfully", TransactionID: 5, FinePaid: 50, ReturnDate: day0.AddDays(20)}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Book returned successfully","transaction_id":5,"fine_paid":50,"return_date":"2024-03-21"}`,
			},
		},
		{
			name: "err. fine not acknowledged",
			body: `{"transaction_id":5}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					SettleFine(gomock.Any(), model.PayFineRequest{TransactionID: 5}).
					Return(model.Confirmation{}, errs.ErrFineNotAcknowledged)
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"kind":"PolicyViolation","reason":"fine_must_be_acknowledged","message":"Paid fine checkbox is mandatory for pending fine"}`,
			},
		},
		{
			name:         "err. transaction id required",
			body:         `{"fine_paid":true}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, http.MethodPost, "/transactions/pay-fine", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_BookAvailable(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		query        string
		mockBehavior func(r *service_mocks.MockLendingService)
		response     response
	}{
		{
			name:  "ok",
			query: "title=dune",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					AvailableBooks(gomock.Any(), model.BookFilter{Title: "dune"}).
					Return([]model.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", SerialNo: "B-001", MediaType: model.MediaBook, Category: "sci-fi", Available: true}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":1,"title":"Dune","author":"Frank Herbert","serial_no":"B-001","media_type":"book","category":"sci-fi","available":true}]`,
			},
		},
		{
			name:  "ok. mixed case media type",
			query: "media_type=Movie",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					AvailableBooks(gomock.Any(), model.BookFilter{MediaType: "Movie"}).
					Return([]model.Book{{ID: 3, Title: "Alien", MediaType: model.MediaMovie, Available: true}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":3,"title":"Alien","author":"","serial_no":"","media_type":"movie","category":"","available":true}]`,
			},
		},
		{
			name:  "err. unknown media type",
			query: "media_type=vinyl",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().AvailableBooks(gomock.Any(), model.BookFilter{MediaType: "vinyl"}).Return(nil, errs.ErrUnknownMediaType)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"unknown_media_type","message":"media_type must be book or movie"}`,
			},
		},
		{
			name:  "err. missing filter",
			query: "",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().AvailableBooks(gomock.Any(), model.BookFilter{}).Return(nil, errs.ErrMissingFilter)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"missing_filter","message":"Provide either title or media_type"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, http.MethodGet, "/transactions/book-available?"+tt.query, "")

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_BookAvailableMatchesMediaTypeLoosely(t *testing.T) {
	t.Parallel()
	log := zap.NewExample().Named("test")
	repo := repository.NewMemoryRepository(log)
	repo.PutBook(model.Book{ID: 1, Title: "Dune", SerialNo: "B-001", MediaType: model.MediaBook, Available: true})
	repo.PutBook(model.Book{ID: 3, Title: "Alien", SerialNo: "M-001", MediaType: model.MediaMovie, Available: true})
	e := newEcho(handler.New(service.NewService(repo, log), log, nil))

	for _, query := range []string{"movie", "Movie", "%20MOVIE%20"} {
		r := httptest.NewRequest(http.MethodGet, "/transactions/book-available?media_type="+query, http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code, query)
		var books []model.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books), query)
		require.Len(t, books, 1, query)
		require.Equal(t, "Alien", books[0].Title, query)
	}
}

func TestHandler_MalformedRequestBody(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name string
		body string
	}{
		{name: "validation", body: `{"book_id":2,"issue_date":"2024-03-01"}`},
		{name: "malformed json", body: `{"user_id":`},
		{name: "malformed date", body: `{"user_id":1,"book_id":2,"issue_date":"01/03/2024"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, func(r *service_mocks.MockLendingService) {}, http.MethodPost, "/transactions/issue-book", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var body errs.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, errs.KindInvalidInput, body.Kind)
			require.Equal(t, errs.ReasonBadRequest, body.Reason)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestHandler_UserTransactions(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		userID       string
		mockBehavior func(r *service_mocks.MockLendingService)
		response     response
	}{
		{
			name:   "ok. empty",
			userID: "9",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().UserReport(gomock.Any(), int64(9)).Return([]model.IssuedRow{}, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `[]`},
		},
		{
			name:   "ok",
			userID: "1",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().UserReport(gomock.Any(), int64(1)).Return([]model.IssuedRow{{
					TransactionID: 5, UserID: 1, Username: "alice", BookID: 2, BookTitle: "Dune",
					IssueDate: day0, DueDate: day0.AddDays(15), Status: model.IssueStatusIssued,
				}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"transaction_id":5,"user_id":1,"username":"alice","book_id":2,"book_title":"Dune","issue_date":"2024-03-01","due_date":"2024-03-16","return_date":null,"status":"Issued"}]`,
			},
		},
		{
			name:         "err. bad user id",
			userID:       "abc",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"InvalidInput","reason":"bad_request","message":"userId is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, http.MethodGet, fmt.Sprintf("/reports/user-transactions/%s", tt.userID), "")

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_OverdueReturns(t *testing.T) {
	t.Parallel()
	w := serve(t, func(r *service_mocks.MockLendingService) {
		r.EXPECT().OverdueReport(gomock.Any()).Return([]model.OverdueRow{{
			TransactionID: 5, UserID: 1, Username: "alice", BookID: 2, BookTitle: "Dune",
			DueDate: day0.AddDays(15), DaysLate: 3, Fine: 30,
		}}, nil)
	}, http.MethodGet, "/reports/overdue-returns", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"transaction_id":5,"user_id":1,"username":"alice","book_id":2,"book_title":"Dune","due_date":"2024-03-16","days_late":3,"fine":30}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_RouterRequiresPrincipal(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		headers      map[string]string
		mockBehavior func(r *service_mocks.MockLendingService)
		expectedCode int
	}{
		{
			name:         "no identity",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "bad user id",
			headers:      map[string]string{auth.XUserIDHeader: "x", auth.XUserRoleHeader: "user"},
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "unknown role",
			headers:      map[string]string{auth.XUserIDHeader: "1", auth.XUserRoleHeader: "librarian"},
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			expectedCode: http.StatusForbidden,
		},
		{
			name:    "user",
			headers: map[string]string{auth.XUserIDHeader: "1", auth.XUserRoleHeader: "user"},
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().ActiveIssues(gomock.Any()).Return([]model.ActiveIssueRow{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "admin",
			headers: map[string]string{auth.XUserIDHeader: "2", auth.XUserRoleHeader: "Admin"},
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().ActiveIssues(gomock.Any()).Return([]model.ActiveIssueRow{}, nil)
			},
			expectedCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			tt.mockBehavior(svc)
			e := handler.New(svc, zap.NewExample(), nil).NewRouter()

			r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/active-issues", http.NoBody)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("lending_operations_total 0\n"))
	})
	e := handler.New(service_mocks.NewMockLendingService(c), zap.NewExample(), metrics).NewRouter()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "lending_operations_total")
}
