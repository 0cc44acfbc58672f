package main

import (
	"context"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/config"
	"agahi-backend/internal/models"
	"agahi-backend/internal/storage"
	"agahi-backend/pkg/logger"

	"github.com/joho/godotenv"
)

const day = 24 * time.Hour

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.New()
	logger.Init(cfg.Env)
	if envErr != nil {
		logger.Info().Msg("No .env file found")
	}

	ctx := context.Background()

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	now := time.Now().UTC()

	// Sample listings, one seller each
	ads := []struct {
		ID          string
		Phone       string
		Title       string
		Description string
		Price       int64
		Category    string
		City        string
		Age         time.Duration
	}{
		{"sample_1", "09123456789", "آیفون 13 پرو 256 گیگابایت",
			"آیفون 13 پرو با حافظه 256 گیگابایت، رنگ آبی، در حد نو و بدون هیچ خرابی. تمام لوازم اصلی موجود است. قیمت توافقی.",
			45000000, "لوازم الکترونیکی و موبایل", "تهران", 2 * day},
		{"sample_2", "09123456790", "ماشین لباسشویی سامسونگ 8 کیلویی",
			"ماشین لباسشویی سامسونگ مدل WW80J5455EW با ظرفیت 8 کیلوگرم، کاملاً سالم و در حال استفاده. دارای گارانتی و تمام لوازم.",
			12000000, "خانه و آشپزخانه", "اصفهان", 5 * day},
		{"sample_3", "09123456791", "آپارتمان 100 متری در منطقه 2",
			"آپارتمان 100 متری در منطقه 2 تهران، طبقه 3، 2 خوابه، دارای پارکینگ و انباری. موقعیت عالی و دسترسی آسان به مترو.",
			3500000000, "مسکن و املاک", "تهران", 1 * day},
		{"sample_4", "09123456792", "موتورسیکلت هوندا CBR 250",
			"موتورسیکلت هوندا CBR 250 مدل 2020، رنگ قرمز، کارکرد 15000 کیلومتر. تمام سرویس‌ها انجام شده و کاملاً سالم است.",
			85000000, "خودرو و موتورسیکلت", "مشهد", 3 * day},
		{"sample_5", "09123456793", "کفش نایک ورزشی سایز 42",
			"کفش نایک ورزشی مدل Air Max، سایز 42، رنگ مشکی و سفید. استفاده شده اما در شرایط خوب. مناسب برای دویدن و ورزش.",
			2500000, "کفش و پوشاک", "شیراز", 7 * day},
	}

	for _, a := range ads {
		owner, err := stores.Users.UserByPhone(ctx, a.Phone)
		if apperr.IsNotFound(err) {
			owner, err = stores.Users.CreateUser(ctx, a.Phone, "")
		}
		if err != nil {
			logger.Error().Err(err).Str("phone", a.Phone).Msg("Failed to prepare seller")
			continue
		}

		created := now.Add(-a.Age)
		err = stores.Ads.CreateAd(ctx, &models.Ad{
			ID:          a.ID,
			UserID:      owner.ID,
			Title:       a.Title,
			Description: a.Description,
			Price:       a.Price,
			Category:    a.Category,
			City:        a.City,
			Phone:       a.Phone,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
		switch {
		case apperr.KindOf(err) == apperr.KindValidation:
			logger.Info().Str("id", a.ID).Msg("Ad already exists")
		case err != nil:
			logger.Error().Err(err).Str("id", a.ID).Msg("Failed to create ad")
		default:
			logger.Info().Str("id", a.ID).Str("title", a.Title).Msg("Ad created")
		}
	}

	logger.Info().Msg("Seeding completed successfully!")
}
