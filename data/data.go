// Package data 嵌入默认配置和示例动作片段
// 必须放在 data/ 目录中，因为 //go:embed 只能嵌入当前包目录及其子目录的文件
package data

import "embed"

// FS 嵌入的数据文件，路径相对于 data/（如 "tween.yaml"、"clips/arm_wave.json"）
//
//go:embed tween.yaml clips/*.json
var FS embed.FS
