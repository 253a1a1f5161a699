package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/auth"
	"github.com/frahmantamala/order-admin/internal/collection"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	dir       string
	store     *collection.Store[user.User]
	users     *user.Service
	hasher    *auth.BcryptHasher
	tokens    *auth.JWTTokenGenerator
	service   *auth.Service
	handler   *auth.Handler
	usersFile string
}

func newFixture(seed string) *fixture {
	f := &fixture{dir: GinkgoT().TempDir()}
	f.usersFile = filepath.Join(f.dir, "users.json")
	Expect(os.WriteFile(f.usersFile, []byte(seed), 0o644)).To(Succeed())

	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	f.store = collection.NewStore[user.User]("users", collection.NewFileBackend(f.dir), slogger).UniqueBy(user.SameUsername)
	f.hasher = auth.NewBcryptHasher(4)
	f.users = user.NewService(f.store, f.hasher, nil, slogger)
	f.tokens = auth.NewJWTTokenGenerator(testSecret, time.Hour)
	f.service = auth.NewService(f.users, f.hasher, f.tokens, slogger)
	f.handler = auth.NewHandler(&transport.BaseHandler{Logger: slogger}, f.service, auth.CookieOptions{})
	return f
}

var _ = Describe("BcryptHasher", func() {
	var hasher *auth.BcryptHasher

	BeforeEach(func() {
		hasher = auth.NewBcryptHasher(4)
	})

	It("should verify its own hashes", func() {
		hash, err := hasher.Hash("s3cret")
		Expect(err).NotTo(HaveOccurred())
		Expect(auth.IsHashed(hash)).To(BeTrue())

		ok, upgrade := hasher.Verify(hash, "s3cret")
		Expect(ok).To(BeTrue())
		Expect(upgrade).To(BeFalse())

		ok, _ = hasher.Verify(hash, "wrong")
		Expect(ok).To(BeFalse())
	})

	It("should accept legacy plaintext and ask for an upgrade", func() {
		ok, upgrade := hasher.Verify("plain", "plain")
		Expect(ok).To(BeTrue())
		Expect(upgrade).To(BeTrue())

		ok, upgrade = hasher.Verify("plain", "other")
		Expect(ok).To(BeFalse())
		Expect(upgrade).To(BeFalse())
	})

	It("should never match an empty stored password", func() {
		ok, _ := hasher.Verify("", "")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("JWTTokenGenerator", func() {
	It("should round trip the user id", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, time.Hour)
		token, expiresAt, err := gen.GenerateSessionToken(42)
		Expect(err).NotTo(HaveOccurred())
		Expect(expiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

		claims, err := gen.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(claims.Subject).To(Equal("42"))
		Expect(claims.ID).NotTo(BeEmpty())
	})

	It("should reject tokens signed with another secret", func() {
		other := auth.NewJWTTokenGenerator("ffffffffffffffffffffffffffffffff", time.Hour)
		token, _, err := other.GenerateSessionToken(1)
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(testSecret, time.Hour).ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("should report expired tokens", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, -time.Minute)
		token, _, err := gen.GenerateSessionToken(1)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("should reject the none algorithm", func() {
		claims := &auth.Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "order-admin"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(testSecret, time.Hour).ValidateToken(token)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Auth Service", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture(`[{"id":1,"username":"legacy","password":"plain","department":"Satış"}]`)
		_, err := f.users.Create(ctx, user.CreateUserRequest{Username: "admin", Password: "admin123", Department: user.DepartmentManagement})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should log in with a hashed password", func() {
		session, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "admin", Password: "admin123"})
		Expect(err).NotTo(HaveOccurred())
		Expect(session.User.ID).To(Equal(int64(2)))
		Expect(session.Token).NotTo(BeEmpty())
	})

	It("should reject a wrong password and an unknown user alike", func() {
		_, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "admin", Password: "nope"})
		Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())

		_, err = f.service.Authenticate(ctx, auth.LoginDTO{Username: "ghost", Password: "nope"})
		Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
	})

	It("should require both fields", func() {
		_, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "admin"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.GetDetailedMessage()).To(Equal("Kullanıcı adı ve şifre gereklidir"))
	})

	It("should upgrade a legacy plaintext password on login", func() {
		_, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "legacy", Password: "plain"})
		Expect(err).NotTo(HaveOccurred())

		stored, err := f.store.GetByID(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(auth.IsHashed(stored.Password)).To(BeTrue())

		_, err = f.service.Authenticate(ctx, auth.LoginDTO{Username: "legacy", Password: "plain"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should invalidate sessions of deleted users", func() {
		session, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "admin", Password: "admin123"})
		Expect(err).NotTo(HaveOccurred())

		_, err = f.users.Delete(ctx, []int64{2})
		Expect(err).NotTo(HaveOccurred())

		_, err = f.service.ResolveSession(ctx, session.Token)
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("should surface storage failures as internal errors", func() {
		Expect(os.Remove(f.usersFile)).To(Succeed())

		_, err := f.service.Authenticate(ctx, auth.LoginDTO{Username: "admin", Password: "admin123"})
		Expect(err).To(HaveOccurred())
		_, isApp := internal.IsAppError(err)
		Expect(isApp).To(BeFalse())
	})
})

var _ = Describe("Auth Handler", func() {
	var (
		f       *fixture
		ctx     context.Context
		guarded http.Handler
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture("[]")
		_, err := f.users.Create(ctx, user.CreateUserRequest{Username: "yonetici", Password: "pw", Department: user.DepartmentManagement})
		Expect(err).NotTo(HaveOccurred())
		_, err = f.users.Create(ctx, user.CreateUserRequest{Username: "satis", Password: "pw", Department: "Satış"})
		Expect(err).NotTo(HaveOccurred())

		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		guarded = f.handler.AuthMiddleware(f.handler.RequireManagement(ok))
	})

	login := func(username, password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"`+username+`","password":"`+password+`"}`))
		w := httptest.NewRecorder()
		f.handler.Login(w, req)
		return w
	}

	tokenFor := func(username string) string {
		w := login(username, "pw")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp auth.LoginResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp.Token
	}

	It("should return the user without password and set the session cookie", func() {
		w := login("yonetici", "pw")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var resp auth.LoginResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Username).To(Equal("yonetici"))
		Expect(resp.Department).To(Equal(user.DepartmentManagement))

		cookies := w.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].Name).To(Equal(auth.SessionCookie))
		Expect(cookies[0].HttpOnly).To(BeTrue())
		Expect(cookies[0].Value).To(Equal(resp.Token))
	})

	It("should answer 401 with the localized message on bad credentials", func() {
		w := login("yonetici", "wrong")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("Kullanıcı adı veya şifre hatalı"))
	})

	It("should answer 400 when fields are missing", func() {
		w := login("", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should let management through with a bearer token", func() {
		req := httptest.NewRequest(http.MethodDelete, "/users?ids=[2]", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor("yonetici"))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should accept the session cookie", func() {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: tokenFor("yonetici")})
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should forbid other departments", func() {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor("satis"))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should ignore a forged department cookie", func() {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor("satis"))
		req.AddCookie(&http.Cookie{Name: "user", Value: `{"department":"Yönetim"}`})
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should pick up a department change on the next request", func() {
		token := tokenFor("satis")
		dept := user.DepartmentManagement
		id := int64(2)
		_, err := f.users.Update(ctx, user.UserPatch{ID: &id, Department: &dept})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should reject requests without a session", func() {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should serve the session user from /auth/me", func() {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor("satis"))
		w := httptest.NewRecorder()
		f.handler.AuthMiddleware(http.HandlerFunc(f.handler.Me)).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp user.UserResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Username).To(Equal("satis"))
	})

	It("should clear the cookie on logout", func() {
		w := httptest.NewRecorder()
		f.handler.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		cookies := w.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].MaxAge).To(BeNumerically("<", 0))
	})
})
