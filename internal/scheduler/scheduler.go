package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallvet/clinica/internal/auditcontext"
	"github.com/smallvet/clinica/internal/clinicctx"
	"github.com/smallvet/clinica/internal/clock"
	appconfig "github.com/smallvet/clinica/internal/config"
	obsmetrics "github.com/smallvet/clinica/internal/observability/metrics"
	"github.com/smallvet/clinica/internal/ratelimit"
	referraldomain "github.com/smallvet/clinica/internal/referral/domain"
	vaccinationdomain "github.com/smallvet/clinica/internal/vaccination/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	reminderSender = "vaccination-reminders"
	reminderLock   = "scheduler:reminders"
)

var ErrInvalidConfig = errors.New("scheduler: missing required dependency")

type Params struct {
	fx.In

	Cfg            appconfig.Config
	Log            *zap.Logger
	Clock          clock.Clock
	VaccinationSvc vaccinationdomain.Service
	ReferralSvc    referraldomain.Service

	Metrics *obsmetrics.Metrics `optional:"true"`
	Locker  *ratelimit.Locker   `optional:"true"`
	Config  Config              `optional:"true"`
}

// Scheduler files vaccination reminders into the referral inbox once a
// day, so due boosters show up where the staff already looks.
type Scheduler struct {
	appCfg         appconfig.Config
	log            *zap.Logger
	cfg            Config
	clock          clock.Clock
	vaccinationSvc vaccinationdomain.Service
	referralSvc    referraldomain.Service
	metrics        *obsmetrics.Metrics
	locker         *ratelimit.Locker

	lastSweepDay string
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.VaccinationSvc == nil || p.ReferralSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		appCfg:         p.Cfg,
		log:            p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:            p.Config.withDefaults(),
		clock:          p.Clock,
		vaccinationSvc: p.VaccinationSvc,
		referralSvc:    p.ReferralSvc,
		metrics:        p.Metrics,
		locker:         p.Locker,
	}, nil
}

// RunOnce performs one reminder sweep for the default clinic.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.SweepTimeout)
	defer cancel()

	if s.appCfg.DefaultClinicID == 0 {
		s.log.Debug("no default clinic configured, skipping reminder sweep")
		return nil
	}

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, reminderLock, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug("reminder sweep already running elsewhere")
			return nil
		}
		defer func() { _ = s.locker.Release(ctx, reminderLock, token) }()
	}

	ctx = clinicctx.WithClinicID(ctx, s.appCfg.DefaultClinicID)
	ctx = auditcontext.WithActor(ctx, "scheduler")

	due, err := s.vaccinationSvc.ListDue(ctx, vaccinationdomain.ListDueRequest{})
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	// One unread reminder per due dose. Re-filing waits until the staff
	// clears the previous one.
	unread, err := s.referralSvc.Inbox(ctx, referraldomain.InboxRequest{
		UnreadOnly: true,
		Limit:      s.cfg.InboxScanLimit,
	})
	if err != nil {
		return err
	}
	pending := make(map[string]struct{}, len(unread))
	for _, referral := range unread {
		if referral.Sender == reminderSender {
			pending[referral.Subject] = struct{}{}
		}
	}

	filed := 0
	for _, item := range due {
		subject := reminderSubject(item)
		if _, exists := pending[subject]; exists {
			continue
		}

		_, err := s.referralSvc.Create(ctx, referraldomain.CreateReferralRequest{
			PatientID: item.PatientID.String(),
			Sender:    reminderSender,
			Subject:   subject,
			Body:      reminderBody(item),
		})
		if err != nil {
			s.log.Warn("failed to file vaccination reminder",
				zap.String("patient", item.PatientName),
				zap.String("vaccine", item.Vaccine),
				zap.Error(err),
			)
			continue
		}
		s.metrics.RecordReminderFiled(ctx)
		filed++
	}

	if filed > 0 {
		s.log.Info("vaccination reminders filed",
			zap.Int("due", len(due)),
			zap.Int("filed", filed),
		)
	}
	return nil
}

// RunForever sweeps once per UTC calendar day, checking every tick. A
// failed sweep is retried on the next tick of the same day.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		day := s.clock.Now().UTC().Format(time.DateOnly)
		if day != s.lastSweepDay {
			if err := s.RunOnce(ctx); err != nil {
				s.log.Warn("reminder sweep failed", zap.Error(err))
			} else {
				s.lastSweepDay = day
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func reminderSubject(item vaccinationdomain.DueVaccination) string {
	return fmt.Sprintf("Vaccination due: %s (%s)", item.PatientName, item.Vaccine)
}

func reminderBody(item vaccinationdomain.DueVaccination) string {
	return fmt.Sprintf(
		"%s is due for a %s booster by %s. Owner: %s, phone %s.",
		item.PatientName,
		item.Vaccine,
		item.NextDue.Format("02/01/2006"),
		item.ClientName,
		item.Phone,
	)
}
