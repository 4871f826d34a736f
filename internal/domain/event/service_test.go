// internal/domain/event/service_test.go
package event

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/stock"
	"github.com/your-org/catering-backend/internal/infrastructure/notify"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubProvisioner struct {
	calls int
	err   error
}

func (p *stubProvisioner) Provision(ctx context.Context, ev *Event, actor authz.Actor) error {
	p.calls++
	return p.err
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}, &Leftover{}, &stock.Stock{}, &stock.StockUpdate{}))

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	cfg := &config.Config{}
	stockSvc := stock.NewService(db, cfg, notify.NopPublisher{})
	return NewService(db, cfg, stockSvc, notify.NopPublisher{}, quiet), db
}

func testCreateRequest() *CreateEventRequest {
	return &CreateEventRequest{
		Name:       "Sharma Wedding",
		Date:       time.Date(2026, 10, 12, 18, 0, 0, 0, time.UTC),
		GuestCount: 150,
		EventType:  "wedding",
		MenuItems: []MenuItem{
			{ItemName: "Chicken Biryani", Category: "main course"},
		},
	}
}

var manager = authz.Actor{ID: 1, Name: "Kitchen Manager", Role: authz.RoleManager}

func TestCreateEventKeepsRowWhenProvisioningFails(t *testing.T) {
	svc, db := newTestService(t)
	prov := &stubProvisioner{err: errors.New("no stock service")}
	svc.SetProvisioner(prov)

	ev, err := svc.CreateEvent(context.Background(), testCreateRequest(), manager)
	require.NoError(t, err, "a provisioning failure must not fail event creation")
	require.NotNil(t, ev)
	assert.Equal(t, 1, prov.calls)
	assert.Contains(t, ev.ProvisionWarning, "auto-provisioning failed")

	var count int64
	require.NoError(t, db.Model(&Event{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var saved Event
	require.NoError(t, db.First(&saved, ev.ID).Error)
	assert.Equal(t, StatusPlanned, saved.Status)
}

func TestCreateEventNoWarningOnProvisionSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	prov := &stubProvisioner{}
	svc.SetProvisioner(prov)

	ev, err := svc.CreateEvent(context.Background(), testCreateRequest(), manager)
	require.NoError(t, err)
	assert.Equal(t, 1, prov.calls)
	assert.Empty(t, ev.ProvisionWarning)
}

func TestUpdateEventKeepsChangesWhenProvisioningFails(t *testing.T) {
	svc, db := newTestService(t)

	ev, err := svc.CreateEvent(context.Background(), testCreateRequest(), manager)
	require.NoError(t, err)

	svc.SetProvisioner(&stubProvisioner{err: errors.New("pipeline down")})

	guests := 200
	updated, err := svc.UpdateEvent(context.Background(), ev.ID, &UpdateEventRequest{GuestCount: &guests}, manager)
	require.NoError(t, err)
	assert.Contains(t, updated.ProvisionWarning, "auto-provisioning failed")

	var saved Event
	require.NoError(t, db.First(&saved, ev.ID).Error)
	assert.Equal(t, 200, saved.GuestCount)
}
