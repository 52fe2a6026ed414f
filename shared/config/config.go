package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config armazena as configurações do DrillVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Volume
	VolumeFile string `json:"volume_file"` // Vazio = volume sintético de demonstração

	// Ferramenta
	ToolCursors int     `json:"tool_cursors"` // Número de cursores na haste (1-8)
	CursorPitch float32 `json:"cursor_pitch"` // Espaçamento entre cursores ao longo do eixo X local
	Stiffness   float32 `json:"stiffness"`    // Rigidez do acoplamento proxy/goal para a força de saída
	SmoothFollow bool   `json:"smooth_follow"` // Broca desliza suavemente até o cursor alvo em vez de saltar

	// Simulação
	PhysicsHz int     `json:"physics_hz"` // Frequência do tick de física
	DrillRate float32 `json:"drill_rate"` // Passo de translação do dispositivo emulado por comando

	// Telemetria
	TelemetryURL string `json:"telemetry_url"` // Vazio = telemetria desligada

	// Coletor
	CollectorAddr string `json:"collector_addr"`
	DatabaseName  string `json:"database_name"`

	// Debug
	ShowDebugInfo    bool `json:"show_debug_info"`
	ShowProxySpheres bool `json:"show_proxy_spheres"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "DrillVision",
		Fullscreen:   false,
		TargetFPS:    60,

		VolumeFile: "",

		ToolCursors:  8,
		CursorPitch:  0.026,
		Stiffness:    20.0,
		SmoothFollow: false,

		PhysicsHz: 1000,
		DrillRate: 0.02,

		TelemetryURL: "",

		CollectorAddr: ":8090",
		DatabaseName:  "drilling",

		ShowDebugInfo:    true,
		ShowProxySpheres: false,
	}
}

// Validate verifica limites que o núcleo da simulação assume.
func (c *Config) Validate() error {
	if c.ToolCursors < 1 || c.ToolCursors > 8 {
		return fmt.Errorf("número de cursores deve estar entre 1 e 8, recebido %d", c.ToolCursors)
	}
	if c.PhysicsHz <= 0 {
		return fmt.Errorf("physics_hz deve ser positivo, recebido %d", c.PhysicsHz)
	}
	return nil
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
