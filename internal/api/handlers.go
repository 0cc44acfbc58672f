package api

import (
	"errors"
	"net/http"
	"strings"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/auth"
	"agahi-backend/internal/config"
	"agahi-backend/internal/middleware"
	"agahi-backend/internal/models"
	"agahi-backend/internal/otp"
	"agahi-backend/internal/storage"
	"agahi-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	users      storage.UserStore
	ads        storage.AdStore
	codes      otp.Store
	jwtManager *auth.JWTManager
	config     *config.Config
}

func NewServer(stores *storage.Stores, codes otp.Store, jwtManager *auth.JWTManager, cfg *config.Config) *Server {
	return &Server{
		users:      stores.Users,
		ads:        stores.Ads,
		codes:      codes,
		jwtManager: jwtManager,
		config:     cfg,
	}
}

// Auth Handlers

// Register runs the two-step phone sign up: step "request" issues a code,
// step "verify" checks it and creates the account.
func (s *Server) Register(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
		respondError(c, apperr.Validation("شماره موبایل الزامی است"))
		return
	}
	if !models.IsValidPhone(req.Phone) {
		respondError(c, apperr.Validation("شماره موبایل معتبر نیست. فرمت صحیح: 09123456789"))
		return
	}

	ctx := c.Request.Context()
	existing, err := s.users.UserByPhone(ctx, req.Phone)
	if err != nil && !apperr.IsNotFound(err) {
		respondError(c, err)
		return
	}
	if existing != nil {
		respondError(c, apperr.Validation("این شماره موبایل قبلاً ثبت شده است"))
		return
	}

	switch req.Step {
	case "request":
		s.issueCode(c, req.Phone)
	case "verify":
		if !s.checkCode(c, req.Phone, req.OTP) {
			return
		}
		user, err := s.users.CreateUser(ctx, req.Phone, strings.TrimSpace(req.Name))
		if err != nil {
			respondError(c, err)
			return
		}
		s.signIn(c, user, "ثبت‌نام با موفقیت انجام شد")
	default:
		respondError(c, apperr.Validation("مرحله نامعتبر است"))
	}
}

// Login runs the two-step phone sign in for an existing account.
func (s *Server) Login(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
		respondError(c, apperr.Validation("شماره موبایل الزامی است"))
		return
	}
	if !models.IsValidPhone(req.Phone) {
		respondError(c, apperr.Validation("شماره موبایل معتبر نیست"))
		return
	}

	user, err := s.users.UserByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.NotFound("کاربری با این شماره موبایل یافت نشد")
		}
		respondError(c, err)
		return
	}

	switch req.Step {
	case "request":
		s.issueCode(c, req.Phone)
	case "verify":
		if !s.checkCode(c, req.Phone, req.OTP) {
			return
		}
		s.signIn(c, user, "ورود موفق")
	default:
		respondError(c, apperr.Validation("مرحله نامعتبر است"))
	}
}

func (s *Server) issueCode(c *gin.Context, phone string) {
	code := s.config.OTP.DevCode
	if code == "" {
		var err error
		if code, err = auth.GenerateCode(); err != nil {
			respondError(c, err)
			return
		}
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.codes.Save(c.Request.Context(), phone, hash, s.config.OTP.TTL); err != nil {
		respondError(c, apperr.Storage("failed to save code", err))
		return
	}

	// TODO: deliver the code through an SMS gateway once one is configured.
	resp := models.AuthResponse{Success: true, Message: "کد تایید ارسال شد"}
	if s.config.OTP.DevCode != "" {
		resp.OTP = code
	}
	c.JSON(http.StatusOK, resp)
}

// checkCode writes the error response itself and reports whether the code
// was accepted.
func (s *Server) checkCode(c *gin.Context, phone, code string) bool {
	if code == "" {
		respondError(c, apperr.Validation("کد تایید الزامی است"))
		return false
	}
	if !auth.IsValidCode(code) {
		respondError(c, apperr.Validation("کد تایید باید 6 رقم باشد"))
		return false
	}

	ctx := c.Request.Context()
	hash, err := s.codes.Get(ctx, phone)
	if err != nil {
		if !errors.Is(err, otp.ErrNoCode) {
			logger.Error().Err(err).Str("phone", phone).Msg("Failed to read pending code")
		}
		respondError(c, apperr.Validation("کد تایید منقضی شده است"))
		return false
	}
	if !auth.CheckCode(code, hash) {
		respondError(c, apperr.Validation("کد تایید اشتباه است"))
		return false
	}
	if err := s.codes.Delete(ctx, phone); err != nil {
		logger.Warn().Err(err).Str("phone", phone).Msg("Failed to delete used code")
	}
	return true
}

func (s *Server) signIn(c *gin.Context, user *models.User, message string) {
	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(s.jwtManager.Expiry().Seconds()), "/", "", s.config.IsProduction(), true)

	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    user,
	})
}

func (s *Server) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", s.config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "خروج موفق"})
}

func (s *Server) Me(c *gin.Context) {
	user, err := s.users.UserByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.NotFound("کاربر یافت نشد")
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Ad Handlers

func (s *Server) CreateAd(c *gin.Context) {
	var req models.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("لطفاً تمام فیلدهای الزامی را پر کنید"))
		return
	}
	if req.Title == "" || req.Description == "" || req.Price <= 0 || req.Category == "" || req.City == "" {
		respondError(c, apperr.Validation("لطفاً تمام فیلدهای الزامی را پر کنید"))
		return
	}

	phone := req.Phone
	if phone == "" {
		phone = c.GetString(middleware.ContextPhone)
	}
	ad := &models.Ad{
		UserID:      c.GetString(middleware.ContextUserID),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		City:        req.City,
		Phone:       phone,
		Images:      req.Images,
	}
	if err := s.ads.CreateAd(c.Request.Context(), ad); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "آگهی با موفقیت ثبت شد",
		"ad":      ad,
	})
}

func (s *Server) ListAds(c *gin.Context) {
	ads, err := s.ads.ListAds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ads": ads})
}

func (s *Server) MyAds(c *gin.Context) {
	ads, err := s.ads.AdsByUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ads": ads})
}

func (s *Server) GetAd(c *gin.Context) {
	ad, err := s.ads.AdByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.NotFound("آگهی یافت نشد")
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ad": ad})
}

// User Handlers

// GetUserByPhone resolves an account id from a phone number or from the
// owner of a listing.
func (s *Server) GetUserByPhone(c *gin.Context) {
	ctx := c.Request.Context()

	if adID := c.Query("adId"); adID != "" {
		ad, err := s.ads.AdByID(ctx, adID)
		if err != nil && !apperr.IsNotFound(err) {
			respondError(c, err)
			return
		}
		if ad != nil {
			userID := ad.UserID
			if ad.Phone != "" {
				user, err := s.users.UserByPhone(ctx, ad.Phone)
				if err != nil && !apperr.IsNotFound(err) {
					respondError(c, err)
					return
				}
				if user != nil {
					userID = user.ID
				}
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
			return
		}
	}

	if phone := c.Query("phone"); phone != "" {
		user, err := s.users.UserByPhone(ctx, phone)
		if err != nil && !apperr.IsNotFound(err) {
			respondError(c, err)
			return
		}
		if user != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "userId": user.ID})
			return
		}
	}

	respondError(c, apperr.NotFound("کاربر یافت نشد"))
}
