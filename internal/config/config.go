// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
)

type Config struct {
	LogLevel  string
	Fonts     FontConfig
	Watermark WatermarkConfig
	Export    ExportConfig
	Preview   PreviewConfig

	// EnvFile reports whether a .env file was read.
	EnvFile bool
}

type FontConfig struct {
	Dirs []string
}

type WatermarkConfig struct {
	Font     string
	FontSize int
	Color    imaging.RGBColor
	Position watermark.Position
}

type ExportConfig struct {
	JPEGQuality int
	Flatten     imaging.RGBColor
}

type PreviewConfig struct {
	Background imaging.RGBColor
}

// Load reads an optional .env file and then the WATERMARK_* variables.
// Variables already set in the environment take precedence over the file.
func Load() (*Config, error) {
	envFile := godotenv.Load() == nil

	fontDirs := watermark.DefaultFontDirs()
	if v := os.Getenv("WATERMARK_FONT_DIRS"); v != "" {
		fontDirs = append(filepath.SplitList(v), fontDirs...)
	}

	textColor, err := getColor("WATERMARK_DEFAULT_COLOR", "#FFFFFF")
	if err != nil {
		return nil, err
	}
	flatten, err := getColor("WATERMARK_FLATTEN_COLOR", "#FFFFFF")
	if err != nil {
		return nil, err
	}
	background, err := getColor("WATERMARK_PREVIEW_BACKGROUND", "#1E1E1E")
	if err != nil {
		return nil, err
	}

	position, err := watermark.ParsePosition(getEnv("WATERMARK_DEFAULT_POSITION", watermark.DefaultPosition.String()))
	if err != nil {
		return nil, fmt.Errorf("WATERMARK_DEFAULT_POSITION: %w", err)
	}

	fontSize := getEnvAsInt("WATERMARK_DEFAULT_FONT_SIZE", watermark.DefaultFontSize)
	if fontSize < watermark.MinFontSize || fontSize > watermark.MaxFontSize {
		return nil, fmt.Errorf("WATERMARK_DEFAULT_FONT_SIZE: %d out of range %d-%d",
			fontSize, watermark.MinFontSize, watermark.MaxFontSize)
	}

	quality := getEnvAsInt("WATERMARK_JPEG_QUALITY", imaging.DefaultJPEGQuality)
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("WATERMARK_JPEG_QUALITY: %d out of range 1-100", quality)
	}

	return &Config{
		LogLevel: strings.ToLower(getEnv("WATERMARK_MCP_LOG_LEVEL", "info")),
		Fonts:    FontConfig{Dirs: fontDirs},
		Watermark: WatermarkConfig{
			Font:     getEnv("WATERMARK_DEFAULT_FONT", watermark.DefaultFont),
			FontSize: fontSize,
			Color:    textColor,
			Position: position,
		},
		Export: ExportConfig{
			JPEGQuality: quality,
			Flatten:     flatten,
		},
		Preview: PreviewConfig{
			Background: background,
		},
		EnvFile: envFile,
	}, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getColor(key, defaultVal string) (imaging.RGBColor, error) {
	c, err := imaging.ParseHexColor(getEnv(key, defaultVal))
	if err != nil {
		return imaging.RGBColor{}, fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}
