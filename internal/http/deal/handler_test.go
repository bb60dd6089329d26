package deal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

func TestHandler_Create(t *testing.T) {
	contactID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(repo *deal.MockRepository, contacts *deal.MockContacts)
		wantStatus int
	}{
		{
			name: "Created",
			body: `{"contact_id":"` + contactID.String() + `","title":"Big Deal","value":500000,"stage":"proposal"}`,
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(&contact.Contact{ID: contactID}, nil)
				repo.EXPECT().CreateDeal(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "ContactNotFound",
			body: `{"contact_id":"` + contactID.String() + `","title":"Orphan","value":100}`,
			setupMock: func(repo *deal.MockRepository, contacts *deal.MockContacts) {
				contacts.EXPECT().GetContact(gomock.Any(), contactID).Return(nil, contact.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "UnknownStageWithOverride",
			body:       `{"contact_id":"` + contactID.String() + `","title":"Bad Stage","value":100,"stage":"discovery","probability":0.5}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := deal.NewMockRepository(ctrl)
			contacts := deal.NewMockContacts(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, contacts)
			}

			h := NewHandler(deal.NewService(repo, contacts))
			r := chi.NewRouter()
			r.Route("/deals", h.Routes)

			req := httptest.NewRequest(http.MethodPost, "/deals/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
