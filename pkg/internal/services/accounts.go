package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func GetAccountWithID(id string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, fmt.Errorf("unable to get account by id: %v", err)
	}
	return account, nil
}

func SignInAnonymously() (models.Account, error) {
	account := models.Account{IsAnonymous: true}
	if err := database.C.Create(&account).Error; err != nil {
		return account, fmt.Errorf("unable to create anonymous account: %v", err)
	}
	return account, nil
}

// RegisterWithPassword creates a password account. The administrator email
// cannot be claimed here, the official channel is provisioned with a
// pre-issued token.
func RegisterWithPassword(email, password string) (models.Account, error) {
	email = NormalizeEmail(email)
	if IsAdminEmail(email) {
		return models.Account{}, ErrEmailReserved
	}

	var count int64
	if err := database.C.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.Account{}, err
	} else if count > 0 {
		return models.Account{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
	}

	account := models.Account{
		Email:        &email,
		PasswordHash: string(hash),
	}
	if err := database.C.Create(&account).Error; err != nil {
		return account, fmt.Errorf("unable to create account: %v", err)
	}
	return account, nil
}

func SignInWithPassword(email, password string) (models.Account, error) {
	email = NormalizeEmail(email)

	var account models.Account
	if err := database.C.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrInvalidCredentials
		}
		return account, err
	}
	if len(account.PasswordHash) == 0 {
		return account, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return account, ErrInvalidCredentials
	}
	return account, nil
}

// CustomTokenClaims are carried by pre-issued sign-in tokens. The subject is
// the identity key the token signs in as.
type CustomTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

func IssueCustomToken(uid, email string, ttl time.Duration) (string, error) {
	claims := CustomTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uid,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Email: NormalizeEmail(email),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(viper.GetString("security.custom_token_secret")))
}

// SignInWithCustomToken signs in as the identity named by a pre-issued token,
// creating the account on its first use.
func SignInWithCustomToken(raw string) (models.Account, error) {
	var claims CustomTokenClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("security.custom_token_secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if len(claims.Subject) == 0 {
		return models.Account{}, fmt.Errorf("%w: token has no subject", ErrInvalidCredentials)
	}

	var account models.Account
	if err := database.C.Where("id = ?", claims.Subject).First(&account).Error; err == nil {
		return account, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return account, err
	}

	account = models.Account{
		BaseModel: models.BaseModel{ID: claims.Subject},
		Email:     lo.Ternary(len(claims.Email) > 0, &claims.Email, nil),
	}
	if err := database.C.Create(&account).Error; err != nil {
		return account, fmt.Errorf("unable to create account: %v", err)
	}
	return account, nil
}
