package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAlertAndPending(t *testing.T) {
	svc := NewService(0)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first, err := svc.ShowAlert("s1", TypeSuccess, "Produto adicionado ao carrinho!")
	require.NoError(t, err)
	_, err = svc.ShowAlert("s1", TypeError, "Erro ao adicionar produto")
	require.NoError(t, err)
	svc.Success("s2", "outra sessão")

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, base.Add(4*time.Second), first.ExpiresAt)

	alerts := svc.Pending("s1")
	require.Len(t, alerts, 2)
	assert.Equal(t, first.ID, alerts[0].ID)
	assert.Equal(t, TypeError, alerts[1].Type)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)

	assert.Empty(t, svc.Pending("s1"))
	assert.Len(t, svc.Pending("s2"), 1)
}

func TestPendingDropsExpired(t *testing.T) {
	svc := NewService(0)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.Error("s1", "velho")
	now = now.Add(3 * time.Second)
	svc.Success("s1", "novo")
	now = now.Add(1500 * time.Millisecond)

	alerts := svc.Pending("s1")
	require.Len(t, alerts, 1)
	assert.Equal(t, "novo", alerts[0].Message)
}

func TestShowAlertSweepsAbandonedQueues(t *testing.T) {
	svc := NewService(0)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for _, sid := range []string{"a", "b", "c"} {
		svc.Error(sid, "Servidor não respondeu")
	}
	now = now.Add(2 * time.Second)
	svc.Info("d", "Carrinho esvaziado")
	require.Equal(t, 4, svc.Len())

	now = now.Add(3 * time.Second)
	svc.Success("e", "Produto adicionado com sucesso!")

	assert.Equal(t, 2, svc.Len())
	assert.Empty(t, svc.Pending("a"))
	assert.Len(t, svc.Pending("d"), 1)
	assert.Len(t, svc.Pending("e"), 1)
	assert.Equal(t, 0, svc.Len())
}

func TestShowAlertRejectsUnknownType(t *testing.T) {
	svc := NewService(time.Second)
	_, err := svc.ShowAlert("s1", Type("warning"), "x")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Empty(t, svc.Pending("s1"))
}

func TestDrop(t *testing.T) {
	svc := NewService(time.Minute)
	svc.Success("s1", "a")
	svc.Drop("s1")
	assert.Empty(t, svc.Pending("s1"))
}

func TestConcurrentShowAlert(t *testing.T) {
	svc := NewService(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Success("s1", "ok")
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Pending("s1"), 50)
}
