package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/srgjo27/lesson_booking/internal/core/ports"
)

const (
	MsgInvalidContact = "Please enter valid name and phone number."
	MsgSubmitFailed   = "Could not submit order. Please try again."
	MsgOrderSubmitted = "Order submitted!"
)

type CheckoutStage string

const (
	StageValidate    CheckoutStage = "validate"
	StageCreateOrder CheckoutStage = "create_order"
	StageReconcile   CheckoutStage = "reconcile_inventory"
)

var (
	ErrValidationFailed  = errors.New("invalid contact details or empty cart")
	ErrOrderCreateFailed = errors.New("order could not be saved")
	ErrReconcileFailed   = errors.New("lesson spaces could not be updated")
)

// CheckoutError reports the stage at which a submission stopped.
type CheckoutError struct {
	Stage CheckoutStage
	Err   error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Stage, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

type CheckoutResult struct {
	OrderID string   `json:"orderId"`
	Total   float64  `json:"total"`
	Items   int      `json:"items"`
	Lessons []string `json:"lessons"`
}

type CheckoutService struct {
	orderRepo  ports.OrderRepository
	lessonRepo ports.LessonRepository
	cache      *redis.Client
	timeout    time.Duration
	log        logrus.FieldLogger
}

func NewCheckoutService(orderRepo ports.OrderRepository, lessonRepo ports.LessonRepository, cache *redis.Client, timeout time.Duration, log logrus.FieldLogger) *CheckoutService {
	return &CheckoutService{
		orderRepo:  orderRepo,
		lessonRepo: lessonRepo,
		cache:      cache,
		timeout:    timeout,
		log:        log,
	}
}

// Submit runs one checkout attempt for the session: validate, create the
// order, push the local spaces of every ordered lesson, then clear the cart.
// Any failure leaves cart, seats and contact as they were and sets the
// session error message. No step is retried or compensated.
func (s *CheckoutService) Submit(ctx context.Context, session *domain.Session) (*CheckoutResult, error) {
	log := s.log.WithField("session_id", session.ID)

	cart := session.Cart()
	if !CanCheckout(session.Contact, cart) {
		session.Fail(MsgInvalidContact)
		return nil, &CheckoutError{Stage: StageValidate, Err: ErrValidationFailed}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	order := domain.NewOrder(session.Contact, cart)

	orderID, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		log.WithError(err).WithField("stage", StageCreateOrder).Error("order create failed")
		session.Fail(MsgSubmitFailed)
		return nil, &CheckoutError{Stage: StageCreateOrder, Err: fmt.Errorf("%w: %w", ErrOrderCreateFailed, err)}
	}

	log = log.WithField("order_id", orderID)

	lessons, err := s.reconcile(ctx, log, session)
	invalidateCatalog(ctx, s.cache, log)
	if err != nil {
		// The order already exists upstream; its seat counts may not.
		log.WithError(err).WithField("stage", StageReconcile).Error("seat reconciliation failed after order was created")
		session.Fail(MsgSubmitFailed)
		return nil, &CheckoutError{Stage: StageReconcile, Err: err}
	}

	session.CompleteOrder(MsgOrderSubmitted)

	log.WithFields(logrus.Fields{
		"items": len(order.Items),
		"total": order.Total,
	}).Info("order submitted")

	return &CheckoutResult{
		OrderID: orderID,
		Total:   order.Total,
		Items:   len(order.Items),
		Lessons: lessons,
	}, nil
}

// reconcile writes the current local spaces of every catalog lesson in the
// cart. Updates run concurrently and all of them are awaited; one failure
// does not cancel the others.
func (s *CheckoutService) reconcile(ctx context.Context, log logrus.FieldLogger, session *domain.Session) ([]string, error) {
	counts := session.SeatCounts()

	var targets []domain.Lesson
	for _, l := range session.Lessons() {
		if counts[l.ID] > 0 {
			targets = append(targets, l)
		}
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		merr *multierror.Error
	)

	for _, l := range targets {
		wg.Add(1)
		go func(l domain.Lesson) {
			defer wg.Done()

			if err := s.lessonRepo.UpdateSpaces(ctx, l.ID, l.Spaces); err != nil {
				mu.Lock()
				merr = multierror.Append(merr, fmt.Errorf("lesson %s: %w", l.ID, err))
				mu.Unlock()
				return
			}

			log.WithFields(logrus.Fields{
				"lesson_id": l.ID,
				"spaces":    l.Spaces,
				"reserved":  counts[l.ID],
			}).Debug("lesson spaces updated")
		}(l)
	}

	wg.Wait()

	if err := merr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReconcileFailed, err)
	}

	ids := make([]string, 0, len(targets))
	for _, l := range targets {
		ids = append(ids, l.ID)
	}

	return ids, nil
}
