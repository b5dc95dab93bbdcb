package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ClinicConfig holds the practice letterhead and the billing policy
// knobs that operators tune without a redeploy: the VAT rate stamped on
// new invoices, the accepted payment methods, and the vaccination
// reminder window.
type ClinicConfig struct {
	ClinicName string `mapstructure:"clinicName"`
	Address    string `mapstructure:"address"`
	Phone      string `mapstructure:"phone"`
	Email      string `mapstructure:"email"`

	VATRate                 float64  `mapstructure:"vatRate"`
	PaymentMethods          []string `mapstructure:"paymentMethods"`
	VaccinationReminderDays int      `mapstructure:"vaccinationReminderDays"`
}

func DefaultClinicConfig() ClinicConfig {
	return ClinicConfig{
		ClinicName: "Veterinary Clinic",
		VATRate:    18,
		PaymentMethods: []string{
			"cash", "credit", "check", "bank_transfer", "paypal", "bit",
		},
		VaccinationReminderDays: 14,
	}
}

type ClinicConfigHolder struct {
	current atomic.Value // holds ClinicConfig
}

func NewClinicConfigHolder() (*ClinicConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("clinic")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/clinica/config") // Volume-mounted config
	v.AddConfigPath("/etc/clinica")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("CLINICA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultClinicConfig()
		v.SetDefault("clinic.clinicName", defaults.ClinicName)
		v.SetDefault("clinic.vatRate", defaults.VATRate)
		v.SetDefault("clinic.paymentMethods", defaults.PaymentMethods)
		v.SetDefault("clinic.vaccinationReminderDays", defaults.VaccinationReminderDays)
	}

	var cfg ClinicConfig
	if err := v.UnmarshalKey("clinic", &cfg); err != nil {
		return nil, err
	}
	if err := validateClinicConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ClinicConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ClinicConfig
		if err := v.UnmarshalKey("clinic", &updated); err != nil {
			log.Printf("[clinic-config] reload failed: %v", err)
			return
		}
		if err := validateClinicConfig(updated); err != nil {
			log.Printf("[clinic-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[clinic-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticClinicConfigHolder wraps a fixed config with no file watching.
func StaticClinicConfigHolder(cfg ClinicConfig) *ClinicConfigHolder {
	holder := &ClinicConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ClinicConfigHolder) Get() ClinicConfig {
	return h.current.Load().(ClinicConfig)
}

func validateClinicConfig(cfg ClinicConfig) error {
	if cfg.VATRate < 0 {
		return errors.New("clinic.vatRate cannot be negative")
	}
	if len(cfg.PaymentMethods) == 0 {
		return errors.New("clinic.paymentMethods cannot be empty")
	}
	if cfg.VaccinationReminderDays < 0 {
		return errors.New("clinic.vaccinationReminderDays cannot be negative")
	}
	return nil
}
