package payments

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"schoolpay/app/database"
	"schoolpay/app/models"
	"schoolpay/app/payments"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// InitiatePaymentRequest is the payload for starting a hosted checkout.
type InitiatePaymentRequest struct {
	Provider string `json:"provider" validate:"required"`
	FeeID    string `json:"fee_id" validate:"required,uuid"`
}

// InitiatePaymentAPI starts a checkout with the school's configured gateway
// and records the pending payment before the payer is redirected.
func InitiatePaymentAPI(c *fiber.Ctx, db *sql.DB, manager *payments.Manager) error {
	schoolID := c.Locals("school_id").(string)

	var req InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	provider, err := models.ParseProvider(req.Provider)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fee, err := database.GetFeeByID(db, req.FeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee")
	}
	if fee.SchoolID != schoolID {
		return fiber.NewError(fiber.StatusNotFound, "Fee not found")
	}
	if fee.Paid {
		return fiber.NewError(fiber.StatusConflict, "Fee is already paid")
	}

	student, err := database.GetStudentByID(db, fee.StudentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	session, err := manager.Initiate(ctx, payments.InitiateRequest{
		Provider:     provider,
		SchoolID:     schoolID,
		StudentID:    student.ID,
		StudentEmail: student.Email,
		FeeID:        fee.ID,
		Amount:       fee.Amount,
		Currency:     fee.Currency,
		Description:  fee.Title,
	})
	if err != nil {
		return mapPaymentError(err)
	}

	// The reference must be durable before the redirect, or the provider's
	// answer cannot be correlated back to this fee.
	payment := &models.Payment{
		SchoolID:  schoolID,
		StudentID: student.ID,
		FeeID:     fee.ID,
		Provider:  provider,
		Reference: session.Reference,
		Amount:    fee.Amount,
		Currency:  fee.Currency,
	}
	if err := database.CreatePayment(db, payment); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}
	if err := database.AttachTransaction(db, fee.ID, provider, session.Reference); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"payment_id": payment.ID,
		"data":       session,
	})
}

// PaymentCallbackAPI is the return leg: the payer lands here after the
// provider's hosted page. It verifies the transaction synchronously and
// settles on success; on failure the fee stays pending for the webhook.
func PaymentCallbackAPI(c *fiber.Ctx, db *sql.DB, manager *payments.Manager) error {
	providerName := c.Query("provider")
	schoolID := c.Query("school_id")
	feeID := c.Query("fee_id")

	provider, err := models.ParseProvider(providerName)
	if err != nil || schoolID == "" {
		return renderResult(c, false, "Invalid payment callback")
	}

	if c.Query("canceled") == "true" {
		return renderResult(c, false, "Payment was canceled")
	}

	reference := callbackReference(provider, c)
	if reference == "" {
		// Fall back to the reference stored on the fee at initiation.
		if fee, err := database.GetFeeByID(db, feeID); err == nil && fee.TransactionID != nil {
			reference = *fee.TransactionID
		}
	}
	if reference == "" {
		return renderResult(c, false, "Missing transaction reference")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	verified, err := manager.Verify(ctx, provider, schoolID, reference)
	if err != nil {
		var verr *payments.VerificationError
		if errors.As(err, &verr) {
			return renderResult(c, false, "Payment not confirmed yet. If you completed the payment it will be reflected shortly.")
		}
		log.Printf("Payment verification error (%s, ref=%s): %v", provider, reference, err)
		return renderResult(c, false, "Payment verification failed")
	}

	if _, _, err := database.SettlePayment(db, provider, reference, verified.Amount, verified.Currency); err != nil {
		if err == sql.ErrNoRows {
			return renderResult(c, false, "Unknown transaction reference")
		}
		log.Printf("Payment settlement error (%s, ref=%s): %v", provider, reference, err)
		return renderResult(c, false, "Payment could not be recorded")
	}

	return renderResult(c, true, "Payment received. Thank you!")
}

// GetPaymentsAPI lists the school's gateway transactions.
func GetPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	schoolID := c.Locals("school_id").(string)

	records, err := database.GetPaymentsBySchool(db, schoolID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

// GetPaymentByIDAPI returns one gateway transaction.
func GetPaymentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	schoolID := c.Locals("school_id").(string)

	payment, err := database.GetPaymentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}
	if payment.SchoolID != schoolID {
		return fiber.NewError(fiber.StatusNotFound, "Payment not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    payment,
	})
}

// callbackReference extracts the provider's reference parameter from the
// return-leg query string. Each provider names it differently.
func callbackReference(provider models.Provider, c *fiber.Ctx) string {
	switch provider {
	case models.ProviderPaystack:
		if ref := c.Query("reference"); ref != "" {
			return ref
		}
		return c.Query("trxref")
	case models.ProviderStripe:
		return c.Query("session_id")
	case models.ProviderFlutterwave:
		return c.Query("tx_ref")
	case models.ProviderPayPal:
		// PayPal appends the order id as "token".
		return c.Query("token")
	default:
		return ""
	}
}

func renderResult(c *fiber.Ctx, success bool, message string) error {
	title := "Payment Failed"
	if success {
		title = "Payment Successful"
	}
	return c.Render("payments/result", fiber.Map{
		"Title":   title + " - SchoolPay",
		"Success": success,
		"Message": message,
	})
}

func mapPaymentError(err error) error {
	var perr *payments.ProviderError
	switch {
	case errors.Is(err, payments.ErrUnsupportedProvider):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, payments.ErrGatewayNotConfigured):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &perr):
		return fiber.NewError(fiber.StatusBadGateway, perr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
