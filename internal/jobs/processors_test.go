package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/jobs"
)

// ======================================================
// Fakes de store e gateway
// ======================================================

type fakeStore struct {
	validationTargets []jobs.Item
	pictureTargets    []jobs.Item

	whatsappStatus map[uint]bool
	pictureURLs    map[uint]string
	pictureKeys    map[uint]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		whatsappStatus: make(map[uint]bool),
		pictureURLs:    make(map[uint]string),
		pictureKeys:    make(map[uint]string),
	}
}

func (s *fakeStore) ListValidationTargets(ctx context.Context) ([]jobs.Item, error) {
	return s.validationTargets, nil
}

func (s *fakeStore) ListPictureTargets(ctx context.Context) ([]jobs.Item, error) {
	return s.pictureTargets, nil
}

func (s *fakeStore) SetWhatsappStatus(ctx context.Context, clienteID uint, has bool, checkedAt time.Time) error {
	s.whatsappStatus[clienteID] = has
	return nil
}

func (s *fakeStore) SetProfilePicture(ctx context.Context, clienteID uint, url, key string) error {
	s.pictureURLs[clienteID] = url
	s.pictureKeys[clienteID] = key
	return nil
}

type fakeFullGateway struct {
	exists    bool
	checkErr  error
	pictURL   string
	pictErr   error
	image     []byte
	imageErr  error
	lastQuery string
}

func (g *fakeFullGateway) EnsureConnected(ctx context.Context) (string, error) {
	return "connected", nil
}

func (g *fakeFullGateway) CheckNumber(ctx context.Context, number string) (bool, error) {
	g.lastQuery = number
	return g.exists, g.checkErr
}

func (g *fakeFullGateway) ProfilePictureURL(ctx context.Context, number string) (string, error) {
	g.lastQuery = number
	return g.pictURL, g.pictErr
}

func (g *fakeFullGateway) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return g.image, g.imageErr
}

var _ jobs.Gateway = (*fakeFullGateway)(nil)

// ======================================================
// Validação de números
// ======================================================

func TestValidationProcessor(t *testing.T) {
	t.Run("número com conta grava tem_whatsapp", func(t *testing.T) {
		store := newFakeStore()
		gw := &fakeFullGateway{exists: true}
		p := jobs.NewValidationProcessor(store, gw)

		assert.Equal(t, job.KindSequentialValidation, p.Kind())

		skipped, err := p.Process(context.Background(), jobs.Item{
			ClienteID: 3,
			Nome:      "Marcos Paulo",
			Telefone:  "(11) 98765-4321",
		})
		require.NoError(t, err)
		assert.False(t, skipped)

		// o gateway recebe o número já normalizado
		assert.Equal(t, "5511987654321", gw.lastQuery)
		assert.True(t, store.whatsappStatus[3])
	})

	t.Run("número sem conta grava o negativo", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewValidationProcessor(store, &fakeFullGateway{exists: false})

		skipped, err := p.Process(context.Background(), jobs.Item{ClienteID: 4, Telefone: "11987654321"})
		require.NoError(t, err)
		assert.False(t, skipped)

		has, ok := store.whatsappStatus[4]
		require.True(t, ok, "o resultado negativo também é gravado")
		assert.False(t, has)
	})

	t.Run("telefone que não normaliza é pulado", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewValidationProcessor(store, &fakeFullGateway{exists: true})

		skipped, err := p.Process(context.Background(), jobs.Item{ClienteID: 5, Telefone: "123"})
		require.NoError(t, err)
		assert.True(t, skipped)
		assert.Empty(t, store.whatsappStatus)
	})

	t.Run("erro do gateway sobe para o runner", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewValidationProcessor(store, &fakeFullGateway{checkErr: errors.New("timeout")})

		_, err := p.Process(context.Background(), jobs.Item{ClienteID: 6, Telefone: "11987654321"})
		require.Error(t, err)
		assert.Empty(t, store.whatsappStatus)
	})

	t.Run("a fila vem do store", func(t *testing.T) {
		store := newFakeStore()
		store.validationTargets = []jobs.Item{{ClienteID: 1}, {ClienteID: 2}}
		p := jobs.NewValidationProcessor(store, &fakeFullGateway{})

		items, err := p.Items(context.Background())
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

// ======================================================
// Fotos de perfil
// ======================================================

func TestProfilePicturesProcessor(t *testing.T) {
	t.Run("sem uploader guarda a URL do gateway", func(t *testing.T) {
		store := newFakeStore()
		gw := &fakeFullGateway{pictURL: "https://cdn.example.com/foto.jpg"}
		p := jobs.NewProfilePicturesProcessor(store, gw, nil)

		assert.Equal(t, job.KindSequentialProfilePictures, p.Kind())

		skipped, err := p.Process(context.Background(), jobs.Item{ClienteID: 3, Telefone: "11987654321"})
		require.NoError(t, err)
		assert.False(t, skipped)

		assert.Equal(t, "https://cdn.example.com/foto.jpg", store.pictureURLs[3])
		assert.Empty(t, store.pictureKeys[3], "sem bucket não há chave de objeto")
	})

	t.Run("número sem foto é pulado", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewProfilePicturesProcessor(store, &fakeFullGateway{pictURL: ""}, nil)

		skipped, err := p.Process(context.Background(), jobs.Item{ClienteID: 3, Telefone: "11987654321"})
		require.NoError(t, err)
		assert.True(t, skipped)
		assert.Empty(t, store.pictureURLs)
	})

	t.Run("telefone que não normaliza é pulado", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewProfilePicturesProcessor(store, &fakeFullGateway{pictURL: "https://x"}, nil)

		skipped, err := p.Process(context.Background(), jobs.Item{ClienteID: 3, Telefone: "abc"})
		require.NoError(t, err)
		assert.True(t, skipped)
	})

	t.Run("erro do gateway sobe para o runner", func(t *testing.T) {
		store := newFakeStore()
		p := jobs.NewProfilePicturesProcessor(store, &fakeFullGateway{pictErr: errors.New("500")}, nil)

		_, err := p.Process(context.Background(), jobs.Item{ClienteID: 3, Telefone: "11987654321"})
		require.Error(t, err)
	})
}
