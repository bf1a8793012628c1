package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/luxwatch/luxwatch-api/internal/dto"
)

var ErrInvalidAmount = errors.New("invalid amount")

// PaymentService is a mock gateway: intents are random ids and verification
// always succeeds. Real gateway integration is out of scope.
type PaymentService struct{}

func NewPaymentService() *PaymentService {
	return &PaymentService{}
}

func (s *PaymentService) CreateIntent(req dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &dto.PaymentIntentResponse{
		PaymentIntentID: "mock_pi_" + uuid.NewString(),
		ClientSecret:    "mock_cs_" + uuid.NewString(),
	}, nil
}

func (s *PaymentService) Verify(req dto.VerifyPaymentRequest) *dto.VerifyPaymentResponse {
	return &dto.VerifyPaymentResponse{
		ID:       req.PaymentIntentID,
		Status:   "succeeded",
		Amount:   req.Amount,
		Currency: "usd",
		Created:  time.Now().Unix(),
	}
}
