package audit

import (
	"testing"
	"time"

	"acente-backend/internal/database"
	"acente-backend/internal/database/dbtest"
	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(t *testing.T) models.LedgerEntry {
	t.Helper()
	e := models.LedgerEntry{
		Type:        models.EntryTypeExpense,
		Amount:      decimal.NewFromInt(250),
		Currency:    "TRY",
		Category:    "Ofis",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Kırtasiye",
	}
	require.NoError(t, database.DB.Create(&e).Error)
	return e
}

func lastLogID(t *testing.T) uint {
	t.Helper()
	var log models.AuditLog
	require.NoError(t, database.DB.Order("id desc").First(&log).Error)
	return log.ID
}

func TestUndoCreateDeletesEntity(t *testing.T) {
	dbtest.Open(t)
	e := newEntry(t)

	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityLedgerEntry, EntityID: e.ID,
		Action: models.AuditActionCreate, Description: "gider eklendi", After: e,
	}))
	logID := lastLogID(t)

	require.NoError(t, UndoLog(logID, 1, "Yönetici"))

	var count int64
	database.DB.Model(&models.LedgerEntry{}).Where("id = ?", e.ID).Count(&count)
	assert.Zero(t, count)

	var undone models.AuditLog
	require.NoError(t, database.DB.First(&undone, logID).Error)
	assert.True(t, undone.IsUndone)
	require.NotNil(t, undone.UndoneBy)
	assert.Equal(t, uint(1), *undone.UndoneBy)

	var undoLog models.AuditLog
	require.NoError(t, database.DB.Where("action = ?", models.AuditActionUndo).First(&undoLog).Error)
	assert.Equal(t, e.ID, undoLog.EntityID)
	assert.True(t, undoLog.Undone)
}

func TestUndoCustomerCreateDetachesTours(t *testing.T) {
	dbtest.Open(t)

	customer := models.Customer{Name: "Elif Şahin", Phone: "555 000 11 22"}
	require.NoError(t, database.DB.Create(&customer).Error)
	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityCustomer, EntityID: customer.ID,
		Action: models.AuditActionCreate, Description: "müşteri eklendi", After: customer,
	}))
	logID := lastLogID(t)

	tour := models.Tour{
		SerialNumber:  "24031234TF",
		CustomerID:    &customer.ID,
		CustomerName:  customer.Name,
		TourDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Currency:      "TRY",
		TotalPrice:    decimal.NewFromInt(1000),
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(t, database.DB.Create(&tour).Error)

	require.NoError(t, UndoLog(logID, 1, "Yönetici"))

	var count int64
	require.NoError(t, database.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).Count(&count).Error)
	assert.Zero(t, count)

	var got models.Tour
	require.NoError(t, database.DB.First(&got, "id = ?", tour.ID).Error)
	assert.Nil(t, got.CustomerID)
	assert.Equal(t, "Elif Şahin", got.CustomerName)
}

func TestUndoUpdateRestoresPreviousState(t *testing.T) {
	dbtest.Open(t)
	e := newEntry(t)
	before := e

	e.Amount = decimal.NewFromInt(999)
	e.Description = "Yanlış tutar"
	require.NoError(t, database.DB.Save(&e).Error)
	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityLedgerEntry, EntityID: e.ID,
		Action: models.AuditActionUpdate, Before: before, After: e,
	}))

	require.NoError(t, UndoLog(lastLogID(t), 1, "Yönetici"))

	var got models.LedgerEntry
	require.NoError(t, database.DB.First(&got, "id = ?", e.ID).Error)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(250)), got.Amount.String())
	assert.Equal(t, "Kırtasiye", got.Description)
}

func TestUndoDeleteRecreatesEntity(t *testing.T) {
	dbtest.Open(t)
	c := models.Customer{Name: "Ali Veli", Phone: "5551112233"}
	require.NoError(t, database.DB.Create(&c).Error)
	require.NoError(t, database.DB.Delete(&c).Error)
	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityCustomer, EntityID: c.ID,
		Action: models.AuditActionDelete, Before: c,
	}))

	require.NoError(t, UndoLog(lastLogID(t), 1, "Yönetici"))

	var got models.Customer
	require.NoError(t, database.DB.First(&got, "id = ?", c.ID).Error)
	assert.Equal(t, "Ali Veli", got.Name)
}

func TestUndoTwiceFails(t *testing.T) {
	dbtest.Open(t)
	e := newEntry(t)
	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityLedgerEntry, EntityID: e.ID, Action: models.AuditActionCreate, After: e,
	}))
	logID := lastLogID(t)

	require.NoError(t, UndoLog(logID, 1, "Yönetici"))
	assert.ErrorIs(t, UndoLog(logID, 1, "Yönetici"), ErrAlreadyUndone)
}

func TestUndoUnsupportedEntity(t *testing.T) {
	dbtest.Open(t)
	require.NoError(t, WriteLog(LogOptions{
		EntityType: EntityTour, EntityID: "tur-1", Action: models.AuditActionCreate,
	}))

	assert.ErrorIs(t, UndoLog(lastLogID(t), 1, "Yönetici"), ErrNotUndoable)

	var log models.AuditLog
	require.NoError(t, database.DB.Order("id").First(&log).Error)
	assert.False(t, log.IsUndone)
}

func TestWriteLogStoresNullForMissingData(t *testing.T) {
	dbtest.Open(t)
	require.NoError(t, WriteLog(LogOptions{EntityType: EntitySupplier, EntityID: "x", Action: models.AuditActionCreate}))

	var log models.AuditLog
	require.NoError(t, database.DB.First(&log).Error)
	assert.Equal(t, "null", log.BeforeData)
	assert.Equal(t, "null", log.AfterData)
}
