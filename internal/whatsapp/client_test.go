package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/whatsapp"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *whatsapp.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return whatsapp.NewClient(srv.URL, "segredo-123", "imobflow", 2*time.Second, zerolog.Nop())
}

// ======================================================
// Estado da conexão
// ======================================================

func TestConnectionState_NormalizaEstados(t *testing.T) {
	cases := []struct {
		gateway string
		want    string
	}{
		{"open", whatsapp.StateConnected},
		{"connecting", whatsapp.StateConnecting},
		{"close", whatsapp.StateDisconnected},
		{"qualquer-outra-coisa", whatsapp.StateDisconnected},
	}

	for _, tc := range cases {
		t.Run(tc.gateway, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/instance/connectionState/imobflow", r.URL.Path)
				assert.Equal(t, "segredo-123", r.Header.Get("apikey"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"instance":{"state":"` + tc.gateway + `"}}`))
			})

			state, err := client.ConnectionState(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, state)
		})
	}
}

func TestEnsureConnected(t *testing.T) {
	t.Run("instância aberta passa", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"instance":{"state":"open"}}`))
		})

		state, err := client.EnsureConnected(context.Background())
		require.NoError(t, err)
		assert.Equal(t, whatsapp.StateConnected, state)
	})

	t.Run("instância fechada devolve ErrDisconnected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"instance":{"state":"close"}}`))
		})

		state, err := client.EnsureConnected(context.Background())
		assert.ErrorIs(t, err, whatsapp.ErrDisconnected)
		assert.Equal(t, whatsapp.StateDisconnected, state)
	})

	t.Run("gateway fora do ar devolve o erro cru", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.EnsureConnected(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, whatsapp.ErrDisconnected)
	})
}

// ======================================================
// Validação de número
// ======================================================

func TestCheckNumber(t *testing.T) {
	t.Run("número com conta", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/whatsappNumbers/imobflow", r.URL.Path)

			_, _ = w.Write([]byte(`[{"exists":true,"jid":"5511987654321@s.whatsapp.net","number":"5511987654321"}]`))
		})

		exists, err := client.CheckNumber(context.Background(), "5511987654321")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("número sem conta", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"exists":false,"number":"5511900000000"}]`))
		})

		exists, err := client.CheckNumber(context.Background(), "5511900000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("resposta vazia vira não-existe", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		exists, err := client.CheckNumber(context.Background(), "5511900000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

// ======================================================
// Foto de perfil
// ======================================================

func TestProfilePictureURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/fetchProfilePictureUrl/imobflow", r.URL.Path)
		_, _ = w.Write([]byte(`{"profilePictureUrl":"https://cdn.example.com/foto.jpg"}`))
	})

	url, err := client.ProfilePictureURL(context.Background(), "5511987654321")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/foto.jpg", url)
}

func TestProfilePictureURL_SemFoto(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"profilePictureUrl":""}`))
	})

	url, err := client.ProfilePictureURL(context.Background(), "5511987654321")
	require.NoError(t, err)
	assert.Empty(t, url)
}

// ======================================================
// Envio de texto
// ======================================================

func TestSendText(t *testing.T) {
	var got struct {
		Number string `json:"number"`
		Text   string `json:"text"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendText/imobflow", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, decodeJSON(r, &got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SendText(context.Background(), "5511987654321", "Olá! Sua visita está confirmada.")
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", got.Number)
	assert.Equal(t, "Olá! Sua visita está confirmada.", got.Text)
}

func TestSendText_ErroDoGateway(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid apikey"}`))
	})

	err := client.SendText(context.Background(), "5511987654321", "oi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

// ======================================================
// Download da foto
// ======================================================

func TestFetchImage(t *testing.T) {
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(img)
	}))
	t.Cleanup(srv.Close)

	client := whatsapp.NewClient("http://gateway.invalid", "k", "imobflow", 2*time.Second, zerolog.Nop())

	data, err := client.FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, img, data)
}

func TestFetchImage_StatusInesperado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := whatsapp.NewClient("http://gateway.invalid", "k", "imobflow", 2*time.Second, zerolog.Nop())

	_, err := client.FetchImage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
