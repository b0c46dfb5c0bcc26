package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

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

const dateLayout = "2006-01-02"

/***** requests *****/

type registerBorrowerRequest struct {
	StudentID string `json:"student_id" validate:"omitempty,uuid"`
	FullName  string `json:"full_name" validate:"required,max=200"`
	LRN       string `json:"lrn" validate:"omitempty,numeric,len=12"`
	Grade     string `json:"grade" validate:"max=20"`
	Section   string `json:"section" validate:"max=50"`
	Contact   string `json:"contact" validate:"max=100"`
}

func (req registerBorrowerRequest) details() core.BorrowerDetails {
	return core.BorrowerDetails{
		FullName: req.FullName,
		LRN:      req.LRN,
		Grade:    req.Grade,
		Section:  req.Section,
		Contact:  req.Contact,
	}
}

type addBookRequest struct {
	ISBN        string          `json:"isbn" validate:"required,max=20"`
	Title       string          `json:"title" validate:"required,max=300"`
	Author      string          `json:"author" validate:"max=200"`
	Genre       string          `json:"genre" validate:"max=100"`
	Year        int             `json:"year" validate:"gte=0,lte=9999"`
	Copies      int             `json:"copies" validate:"gte=0"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"max=2000"`
	Image       string          `json:"image" validate:"max=500"`
}

func (req addBookRequest) details() core.BookDetails {
	return core.BookDetails{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Year:        req.Year,
		Copies:      req.Copies,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	}
}

type createBorrowRequest struct {
	BookID     string `json:"book_id" validate:"required,uuid"`
	StudentID  string `json:"student_id" validate:"required,uuid"`
	BorrowDays int    `json:"borrow_days" validate:"required,min=1,max=7"`
}

type returnBookRequest struct {
	ConfirmPenaltyPaid bool `json:"confirm_penalty_paid"`
}

/***** responses *****/

type borrowRecordResponse struct {
	BorrowID      string  `json:"borrow_id"`
	BookID        string  `json:"book_id"`
	BookTitle     string  `json:"book_title,omitempty"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name,omitempty"`
	Status        string  `json:"status"`
	RequestedAt   string  `json:"requested_at"`
	BorrowDate    string  `json:"borrow_date"`
	BorrowDays    int     `json:"borrow_days"`
	DueDate       string  `json:"due_date"`
	ReturnDate    *string `json:"return_date,omitempty"`
	OverdueDays   int     `json:"overdue_days"`
	PenaltyFee    string  `json:"penalty_fee"`
	PenaltyStatus string  `json:"penalty_status"`
	ProcessedBy   string  `json:"processed_by,omitempty"`
	BookPrice     *string `json:"book_price,omitempty"`
	SettledAt     *string `json:"settled_at,omitempty"`
}

func toBorrowRecordResponse(r core.BorrowRecord, bookTitle, studentName string) borrowRecordResponse {
	resp := borrowRecordResponse{
		BorrowID:      r.BorrowID,
		BookID:        r.BookID,
		BookTitle:     bookTitle,
		StudentID:     r.StudentID,
		StudentName:   studentName,
		Status:        string(r.Status),
		RequestedAt:   formatTime(r.RequestedAt),
		BorrowDate:    formatDate(r.BorrowDate),
		BorrowDays:    r.BorrowDays,
		DueDate:       formatDate(r.DueDate),
		ReturnDate:    optionalDate(r.ReturnDate),
		OverdueDays:   r.OverdueDays,
		PenaltyFee:    money(r.PenaltyFee),
		PenaltyStatus: string(r.PenaltyStatus),
		ProcessedBy:   r.ProcessedBy,
		SettledAt:     optionalTime(r.SettledAt),
	}

	if r.Status == core.BorrowStatusLost {
		price := money(r.BookPrice)
		resp.BookPrice = &price
	}

	return resp
}

func fromBorrowRecordView(v borrowrecord.BorrowRecordView) borrowRecordResponse {
	return toBorrowRecordResponse(v.BorrowRecord, v.BookTitle, v.StudentName)
}

type borrowRecordListResponse struct {
	Items []borrowRecordResponse `json:"items"`
	Count int                    `json:"count"`
}

func fromBorrowRecordList(list borrowrecords.BorrowRecordList) borrowRecordListResponse {
	items := make([]borrowRecordResponse, 0, len(list.Records))
	for _, v := range list.Records {
		items = append(items, toBorrowRecordResponse(v.BorrowRecord, v.BookTitle, v.StudentName))
	}

	return borrowRecordListResponse{Items: items, Count: list.Count}
}

type settlePenaltyResponse struct {
	Record         borrowRecordResponse `json:"record"`
	AlreadySettled bool                 `json:"already_settled"`
}

type overdueStatusResponse struct {
	BorrowID    string `json:"borrow_id"`
	IsOverdue   bool   `json:"is_overdue"`
	OverdueDays int    `json:"overdue_days"`
	PenaltyFee  string `json:"penalty_fee"`
}

func fromOverdueStatus(borrowID string, status penalty.Status) overdueStatusResponse {
	return overdueStatusResponse{
		BorrowID:    borrowID,
		IsOverdue:   status.IsOverdue(),
		OverdueDays: status.OverdueDays,
		PenaltyFee:  money(status.PenaltyFee),
	}
}

type bookResponse struct {
	BookID      string `json:"book_id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Copies      int    `json:"copies"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	AddedAt     string `json:"added_at"`
}

func toBookResponse(b core.Book) bookResponse {
	return bookResponse{
		BookID:      b.BookID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Year:        b.Year,
		Copies:      b.Copies,
		Price:       money(b.Price),
		Description: b.Description,
		Image:       b.Image,
		AddedAt:     formatTime(b.AddedAt),
	}
}

type catalogBookResponse struct {
	bookResponse
	OpenLoans int  `json:"open_loans"`
	Available bool `json:"available"`
}

type bookListResponse struct {
	Items []catalogBookResponse `json:"items"`
	Count int                   `json:"count"`
}

func fromBookList(list bookcatalog.BookList) bookListResponse {
	items := make([]catalogBookResponse, 0, len(list.Books))
	for _, b := range list.Books {
		items = append(items, catalogBookResponse{
			bookResponse: toBookResponse(b.Book),
			OpenLoans:    b.OpenLoans,
			Available:    b.Available,
		})
	}

	return bookListResponse{Items: items, Count: list.Count}
}

type archivedBookResponse struct {
	bookResponse
	DateArchived  string `json:"date_archived"`
	ArchivedBy    string `json:"archived_by"`
	DaysInArchive *int   `json:"days_in_archive,omitempty"`
	DaysLeft      *int   `json:"days_left,omitempty"`
	Expired       *bool  `json:"expired,omitempty"`
}

func toArchivedBookResponse(b core.ArchivedBook) archivedBookResponse {
	return archivedBookResponse{
		bookResponse: toBookResponse(b.Book),
		DateArchived: formatTime(b.DateArchived),
		ArchivedBy:   b.ArchivedBy,
	}
}

type archivedBookListResponse struct {
	Items []archivedBookResponse `json:"items"`
	Count int                    `json:"count"`
}

func fromArchivedBookList(list archivedbooks.ArchivedBookList) archivedBookListResponse {
	items := make([]archivedBookResponse, 0, len(list.Books))
	for _, b := range list.Books {
		resp := toArchivedBookResponse(b.ArchivedBook)
		resp.DaysInArchive = &b.DaysInArchive
		resp.DaysLeft = &b.DaysLeft
		resp.Expired = &b.Expired
		items = append(items, resp)
	}

	return archivedBookListResponse{Items: items, Count: list.Count}
}

type sweepResponse struct {
	PurgedBookIDs []string `json:"purged_book_ids"`
	Count         int      `json:"count"`
}

type borrowerResponse struct {
	StudentID   string `json:"student_id"`
	FullName    string `json:"full_name"`
	LRN         string `json:"lrn"`
	Grade       string `json:"grade"`
	Section     string `json:"section"`
	Contact     string `json:"contact"`
	BorrowCount int    `json:"borrow_count"`
}

func toBorrowerResponse(b core.Borrower) borrowerResponse {
	return borrowerResponse{
		StudentID:   b.StudentID,
		FullName:    b.FullName,
		LRN:         b.LRN,
		Grade:       b.Grade,
		Section:     b.Section,
		Contact:     b.Contact,
		BorrowCount: b.BorrowCount,
	}
}

type profileResponse struct {
	borrowerResponse
	IsBanned           bool                   `json:"is_banned"`
	OffendingBorrowIDs []string               `json:"offending_borrow_ids"`
	PendingRequests    int                    `json:"pending_requests"`
	ActiveLoans        int                    `json:"active_loans"`
	History            []borrowRecordResponse `json:"history"`
}

func fromProfile(p borrowerprofile.Profile) profileResponse {
	history := make([]borrowRecordResponse, 0, len(p.History))
	for _, entry := range p.History {
		history = append(history, toBorrowRecordResponse(entry.BorrowRecord, entry.BookTitle, ""))
	}

	return profileResponse{
		borrowerResponse:   toBorrowerResponse(p.Borrower),
		IsBanned:           p.IsBanned,
		OffendingBorrowIDs: nonNil(p.OffendingBorrowIDs),
		PendingRequests:    p.PendingRequests,
		ActiveLoans:        p.ActiveLoans,
		History:            history,
	}
}

type eligibilityResponse struct {
	StudentID          string   `json:"student_id"`
	IsBanned           bool     `json:"is_banned"`
	OffendingBorrowIDs []string `json:"offending_borrow_ids"`
	OutstandingPenalty string   `json:"outstanding_penalty"`
}

func fromEligibility(e eligibility.Eligibility) eligibilityResponse {
	return eligibilityResponse{
		StudentID:          e.StudentID,
		IsBanned:           e.IsBanned,
		OffendingBorrowIDs: nonNil(e.OffendingBorrowIDs),
		OutstandingPenalty: money(e.OutstandingPenalty),
	}
}

type notificationResponse struct {
	BorrowID   string `json:"borrow_id"`
	Kind       string `json:"kind"`
	BookTitle  string `json:"book_title"`
	Message    string `json:"message"`
	DueDate    string `json:"due_date"`
	PenaltyFee string `json:"penalty_fee"`
	At         string `json:"at"`
}

type notificationsResponse struct {
	StudentID string                 `json:"student_id"`
	Items     []notificationResponse `json:"items"`
	Count     int                    `json:"count"`
}

func fromNotifications(n notifications.Notifications) notificationsResponse {
	items := make([]notificationResponse, 0, len(n.Items))
	for _, item := range n.Items {
		items = append(items, notificationResponse{
			BorrowID:   item.BorrowID,
			Kind:       string(item.Kind),
			BookTitle:  item.BookTitle,
			Message:    item.Message,
			DueDate:    formatDate(item.DueDate),
			PenaltyFee: money(item.PenaltyFee),
			At:         formatTime(item.At),
		})
	}

	return notificationsResponse{StudentID: n.StudentID, Items: items, Count: n.Count}
}

type monthlyTotalResponse struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

type penaltySummaryResponse struct {
	PendingRequests   int                    `json:"pending_requests"`
	ActiveLoans       int                    `json:"active_loans"`
	OverdueLoans      int                    `json:"overdue_loans"`
	LostUnpaid        int                    `json:"lost_unpaid"`
	BannedStudents    int                    `json:"banned_students"`
	AccruingFees      string                 `json:"accruing_fees"`
	OutstandingLost   string                 `json:"outstanding_lost"`
	Collected         string                 `json:"collected"`
	CollectedPerMonth []monthlyTotalResponse `json:"collected_per_month"`
}

func fromPenaltySummary(s penaltysummary.Summary) penaltySummaryResponse {
	perMonth := make([]monthlyTotalResponse, 0, len(s.CollectedPerMonth))
	for _, m := range s.CollectedPerMonth {
		perMonth = append(perMonth, monthlyTotalResponse{Month: m.Month, Amount: money(m.Amount)})
	}

	return penaltySummaryResponse{
		PendingRequests:   s.PendingRequests,
		ActiveLoans:       s.ActiveLoans,
		OverdueLoans:      s.OverdueLoans,
		LostUnpaid:        s.LostUnpaid,
		BannedStudents:    s.BannedStudents,
		AccruingFees:      money(s.AccruingFees),
		OutstandingLost:   money(s.OutstandingLost),
		Collected:         money(s.Collected),
		CollectedPerMonth: perMonth,
	}
}

/***** formatting *****/

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

func optionalDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}

	s := formatDate(t)

	return &s
}

func optionalTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}

	s := formatTime(t)

	return &s
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
