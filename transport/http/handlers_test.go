package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/anteroom/adapters/noncestore"
	"github.com/layer-3/anteroom/adapters/store"
	"github.com/layer-3/anteroom/adapters/tokenizer"
	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/internal/eth"
	"github.com/layer-3/anteroom/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingPublisher struct {
	mu     sync.Mutex
	events []core.LoginResult
}

func (p *countingPublisher) PublishLoginResult(ctx context.Context, sessionID, address, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, core.LoginResult{Session: sessionID, Address: address, Name: name})
	return nil
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

func newTestRouter() (*gin.Engine, *countingPublisher) {
	pub := &countingPublisher{}
	svc := service.NewAuthService(
		noncestore.NewMemoryStore(),
		store.NewMemoryStore(),
		tokenizer.NewJWTTokenizer([]byte("test-secret-key-at-least-32-bytes")),
		pub,
	)
	return SetupRouter(svc), pub
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newWalletKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signNonce(t *testing.T, key *ecdsa.PrivateKey, nonce int) string {
	t.Helper()

	sig, err := eth.SignPersonalMessage(service.ChallengeMessage(nonce), key)
	require.NoError(t, err)

	return hexutil.Encode(sig)
}

func TestPrepareNonceEndpoint(t *testing.T) {
	router, _ := newTestRouter()
	_, address := newWalletKey(t)

	w := doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	nonce, ok := body["nonce"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, int(nonce), 0)
	assert.Less(t, int(nonce), 10000)
}

func TestPrepareNonceEndpointRejectsBadAddress(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticateEndpointBadSignature(t *testing.T) {
	router, _ := newTestRouter()
	key, address := newWalletKey(t)

	w := doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, w.Code)
	nonce := int(decodeBody(t, w)["nonce"].(float64))

	// Signature over a different nonce value.
	w = doRequest(t, router, http.MethodPost, "/account/auth", "", gin.H{
		"address":   address,
		"signature": signNonce(t, key, nonce+1),
		"session":   "browser-session-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Signature verification failed", decodeBody(t, w)["message"])
}

func TestAuthenticateEndpointWithoutNonce(t *testing.T) {
	router, _ := newTestRouter()
	key, address := newWalletKey(t)

	w := doRequest(t, router, http.MethodPost, "/account/auth", "", gin.H{
		"address":   address,
		"signature": signNonce(t, key, 4821),
		"session":   "browser-session-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Signature verification failed", decodeBody(t, w)["message"])
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(t, router, http.MethodPost, "/account/login", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, w)["message"])

	w = doRequest(t, router, http.MethodPost, "/account/register", "garbage-token", gin.H{"name": "Hero"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, w)["message"])
}

func TestFullFlowOverHTTP(t *testing.T) {
	router, pub := newTestRouter()
	key, address := newWalletKey(t)

	// Request a nonce.
	w := doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, w.Code)
	nonce := int(decodeBody(t, w)["nonce"].(float64))

	// Authenticate with the signed challenge.
	w = doRequest(t, router, http.MethodPost, "/account/auth", "", gin.H{
		"address":   address,
		"signature": signNonce(t, key, nonce),
		"session":   "browser-session-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	assert.NotContains(t, body, "name")

	// Login before registration is rejected.
	w = doRequest(t, router, http.MethodPost, "/account/login", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Require register", decodeBody(t, w)["message"])

	// Register a display name.
	w = doRequest(t, router, http.MethodPost, "/account/register", token, gin.H{"name": "Hero"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, pub.count())

	// Registering again conflicts.
	w = doRequest(t, router, http.MethodPost, "/account/register", token, gin.H{"name": "Villain"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, pub.count())

	// Login now succeeds and publishes exactly one more event.
	w = doRequest(t, router, http.MethodPost, "/account/login", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, pub.count())
}

func TestAuthenticateReturnsRegisteredName(t *testing.T) {
	router, _ := newTestRouter()
	key, address := newWalletKey(t)

	w := doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, w.Code)
	nonce := int(decodeBody(t, w)["nonce"].(float64))

	w = doRequest(t, router, http.MethodPost, "/account/auth", "", gin.H{
		"address":   address,
		"signature": signNonce(t, key, nonce),
		"session":   "browser-session-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["token"].(string)

	w = doRequest(t, router, http.MethodPost, "/account/register", token, gin.H{"name": "Hero"})
	require.Equal(t, http.StatusOK, w.Code)

	// A later authentication round reports the registered name.
	w = doRequest(t, router, http.MethodPost, "/account/nonce", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, w.Code)
	nonce = int(decodeBody(t, w)["nonce"].(float64))

	w = doRequest(t, router, http.MethodPost, "/account/auth", "", gin.H{
		"address":   address,
		"signature": signNonce(t, key, nonce),
		"session":   "browser-session-2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hero", decodeBody(t, w)["name"])
}
