package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config. The signing key
	// is set from the app config when the server is built.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextUserKey = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	IsTeacher bool   `json:"is_teacher,omitempty"` // -> TEACHER PORTAL
	IsAdmin   bool   `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:     usr.Email,
		Role:      usr.Role,
		IsTeacher: usr.IsTeacher(),
		IsAdmin:   usr.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, wrapStoreErr(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

type authApi struct {
	conf    *core.Config
	gate    *access.Gate
	userSvc user.Service
}

func registerAuthAPI(g *echo.Group, conf *core.Config, gate *access.Gate, userSvc user.Service) {
	api := authApi{
		conf:    conf,
		gate:    gate,
		userSvc: userSvc,
	}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

// login runs the access gate over a freshly authenticated identity and, when
// authorized, issues the session token. A denied identity is told nothing but
// "access denied": the concrete reason stays in the audit log.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	idt := access.Identity{
		ID:          data.ID,
		Email:       data.Email,
		DisplayName: data.DisplayName,
		PhotoURL:    data.PhotoURL,
		UserAgent:   ctx.Request().UserAgent(),
	}

	decision := api.gate.Evaluate(reqCtx, idt)
	if !decision.Authorized() {
		return errAccessDenied
	}

	var usr user.User
	var err error
	if idt.ID != "" {
		usr, err = api.userSvc.GetByID(reqCtx, idt.ID)
	} else {
		usr, err = api.userSvc.GetByEmail(reqCtx, idt.Email)
	}
	if err != nil {
		return wrapStoreErr(err, "finding authorized user")
	}

	token, err := GenerateToken(GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: decision.Role, User: usr})
}
