package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/features/query/archivedbooks"
	"github.com/schoollibrary/circulation/library/features/query/bookcatalog"
	"github.com/schoollibrary/circulation/library/features/query/borrowerprofile"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecord"
	"github.com/schoollibrary/circulation/library/features/query/borrowrecords"
	"github.com/schoollibrary/circulation/library/features/query/eligibility"
	"github.com/schoollibrary/circulation/library/features/query/notifications"
	"github.com/schoollibrary/circulation/library/features/query/penaltysummary"
	"github.com/schoollibrary/circulation/library/penalty"
)

const maxBodyBytes = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Circulation is the facade the API exposes. circulation.Service implements it.
type Circulation interface {
	RegisterBorrower(ctx context.Context, studentID uuid.UUID, details core.BorrowerDetails) (core.Borrower, error)
	AddBook(ctx context.Context, staffID string, details core.BookDetails) (core.Book, error)
	CreateBorrowRequest(ctx context.Context, bookID, studentID uuid.UUID, borrowDays int) (core.BorrowRecord, error)
	ApproveRequest(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error)
	DeclineRequest(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error)
	ReturnBook(ctx context.Context, borrowID uuid.UUID, staffID string, confirmPenaltyPaid bool) (core.BorrowRecord, error)
	MarkLost(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error)
	SettlePenalty(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, bool, error)
	ComputeOverdueStatus(record core.BorrowRecord) penalty.Status
	IsBanned(ctx context.Context, studentID uuid.UUID) (eligibility.Eligibility, error)
	ArchiveBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.ArchivedBook, error)
	RetrieveArchivedBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.Book, error)
	DeleteArchivedBook(ctx context.Context, bookID uuid.UUID, staffID string) (core.ArchivedBook, error)
	SweepArchiveExpiry(ctx context.Context) ([]core.BookIDString, error)
	ListArchivedBooks(ctx context.Context) (archivedbooks.ArchivedBookList, error)
	BorrowRecord(ctx context.Context, borrowID uuid.UUID) (borrowrecord.BorrowRecordView, error)
	BorrowRecords(ctx context.Context, filters borrowrecords.Filters) (borrowrecords.BorrowRecordList, error)
	Books(ctx context.Context, search string) (bookcatalog.BookList, error)
	Borrower(ctx context.Context, studentID uuid.UUID) (borrowerprofile.Profile, error)
	Notifications(ctx context.Context, studentID uuid.UUID) (notifications.Notifications, error)
	PenaltySummary(ctx context.Context) (penaltysummary.Summary, error)
}

// Handler serves the circulation endpoints.
type Handler struct {
	circulation Circulation
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(circulation Circulation, logger *slog.Logger) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Handler{
		circulation: circulation,
		validate:    validate,
		logger:      logger.With(slog.String("component", "httpapi")),
	}
}

/***** borrowers *****/

func (h *Handler) registerBorrower(w http.ResponseWriter, r *http.Request) {
	var req registerBorrowerRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	studentID := uuid.Nil
	if req.StudentID != "" {
		studentID = uuid.MustParse(req.StudentID) // validated as uuid
	}

	borrower, err := h.circulation.RegisterBorrower(r.Context(), studentID, req.details())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBorrowerResponse(borrower))
}

func (h *Handler) getBorrower(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentID")
	if !ok {
		return
	}

	profile, err := h.circulation.Borrower(r.Context(), studentID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromProfile(profile))
}

func (h *Handler) getEligibility(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentID")
	if !ok {
		return
	}

	result, err := h.circulation.IsBanned(r.Context(), studentID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromEligibility(result))
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentID")
	if !ok {
		return
	}

	feed, err := h.circulation.Notifications(r.Context(), studentID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromNotifications(feed))
}

/***** books *****/

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	book, err := h.circulation.AddBook(r.Context(), StaffIDFrom(r.Context()), req.details())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(book))
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	list, err := h.circulation.Books(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromBookList(list))
}

func (h *Handler) archiveBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	book, err := h.circulation.ArchiveBook(r.Context(), bookID, StaffIDFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toArchivedBookResponse(book))
}

/***** archive *****/

func (h *Handler) listArchive(w http.ResponseWriter, r *http.Request) {
	list, err := h.circulation.ListArchivedBooks(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromArchivedBookList(list))
}

func (h *Handler) retrieveArchivedBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	book, err := h.circulation.RetrieveArchivedBook(r.Context(), bookID, StaffIDFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *Handler) deleteArchivedBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathUUID(w, r, "bookID")
	if !ok {
		return
	}

	book, err := h.circulation.DeleteArchivedBook(r.Context(), bookID, StaffIDFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toArchivedBookResponse(book))
}

func (h *Handler) sweepArchive(w http.ResponseWriter, r *http.Request) {
	purged, err := h.circulation.SweepArchiveExpiry(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{PurgedBookIDs: nonNil(purged), Count: len(purged)})
}

/***** borrow records *****/

func (h *Handler) createBorrowRequest(w http.ResponseWriter, r *http.Request) {
	var req createBorrowRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	record, err := h.circulation.CreateBorrowRequest(
		r.Context(),
		uuid.MustParse(req.BookID),
		uuid.MustParse(req.StudentID),
		req.BorrowDays,
	)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBorrowRecordResponse(record, "", ""))
}

func (h *Handler) listBorrowRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := borrowrecords.Filters{
		Status:        q.Get("status"),
		PenaltyStatus: q.Get("penalty_status"),
		StudentID:     q.Get("student_id"),
		BookID:        q.Get("book_id"),
	}

	list, err := h.circulation.BorrowRecords(r.Context(), filters)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromBorrowRecordList(list))
}

func (h *Handler) getBorrowRecord(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := pathUUID(w, r, "borrowID")
	if !ok {
		return
	}

	view, err := h.circulation.BorrowRecord(r.Context(), borrowID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromBorrowRecordView(view))
}

func (h *Handler) getOverdueStatus(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := pathUUID(w, r, "borrowID")
	if !ok {
		return
	}

	view, err := h.circulation.BorrowRecord(r.Context(), borrowID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromOverdueStatus(view.BorrowID, h.circulation.ComputeOverdueStatus(view.BorrowRecord)))
}

type recordTransition func(ctx context.Context, borrowID uuid.UUID, staffID string) (core.BorrowRecord, error)

// transition serves the staff actions that only need the record ID.
func (h *Handler) transition(apply recordTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		borrowID, ok := pathUUID(w, r, "borrowID")
		if !ok {
			return
		}

		record, err := apply(r.Context(), borrowID, StaffIDFrom(r.Context()))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toBorrowRecordResponse(record, "", ""))
	}
}

func (h *Handler) returnBook(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := pathUUID(w, r, "borrowID")
	if !ok {
		return
	}

	var req returnBookRequest
	if !h.decode(w, r, &req, true) {
		return
	}

	record, err := h.circulation.ReturnBook(r.Context(), borrowID, StaffIDFrom(r.Context()), req.ConfirmPenaltyPaid)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBorrowRecordResponse(record, "", ""))
}

func (h *Handler) settlePenalty(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := pathUUID(w, r, "borrowID")
	if !ok {
		return
	}

	record, alreadySettled, err := h.circulation.SettlePenalty(r.Context(), borrowID, StaffIDFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settlePenaltyResponse{
		Record:         toBorrowRecordResponse(record, "", ""),
		AlreadySettled: alreadySettled,
	})
}

/***** reports *****/

func (h *Handler) getPenaltySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.circulation.PenaltySummary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, fromPenaltySummary(summary))
}

/***** helpers *****/

// decode reads and validates a JSON body. An empty body is accepted when optional is set.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}

		WriteError(w, http.StatusBadRequest, CodeValidationError, "invalid JSON body: "+err.Error())

		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, validationMessage(err))
		return false
	}

	return true
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		part := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			part += "=" + fe.Param()
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, "; ")
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidationError, param+" must be a UUID")
		return uuid.Nil, false
	}

	return id, true
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
