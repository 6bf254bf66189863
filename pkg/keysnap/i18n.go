package keysnap

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI help and report labels.
	l10n.Register("ja", l10n.LexiconMap{
		// Descriptions
		"Extract keyframe snapshots and re-encode the video to H.264 M4V": "キーフレームのスナップショットを抽出し、動画を H.264 M4V に再エンコード",
		"Extract keyframe snapshots as JPEG files":                        "キーフレームのスナップショットを JPEG ファイルとして抽出",

		// Arguments
		"Input video file path or URL":                              "入力動画のファイルパスまたは URL",
		"Existing directory for snapshots and the re-encoded video": "スナップショットと再エンコード動画の出力先（既存のディレクトリ）",

		// Flag groups
		"Debug":   "デバッグ",
		"Logging": "ログ",

		// Flags
		"Enable debug output":                  "デバッグ出力を有効化",
		"Directory for debug output":           "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",
		"Show version information":             "バージョン情報を表示",

		// Report content
		"Run Summary":      "実行サマリー",
		"Item":             "項目",
		"Value":            "値",
		"Run ID":           "実行 ID",
		"Mode":             "モード",
		"Input":            "入力",
		"Output Directory": "出力ディレクトリ",
		"Generated at":     "生成日時",

		// Stream section
		"Input Streams": "入力ストリーム",
		"Type":          "種別",
		"Video Stream":  "映像ストリーム",
		"Index":         "インデックス",
		"Codec":         "コーデック",
		"Size":          "サイズ",
		"Time Base":     "タイムベース",

		// Packet and codec sections
		"Packets":               "パケット",
		"Seen":                  "読み取り",
		"Admitted":              "採用",
		"Other Streams":         "他のストリーム",
		"Before First Keyframe": "最初のキーフレーム以前",
		"Non-Key Dropped":       "非キーフレームの破棄",
		"Decoder":               "デコーダ",
		"Packets Sent":          "送信パケット",
		"Frames":                "フレーム",
		"No Frame Yet":          "フレーム未出力",
		"Errors":                "エラー",
		"Encoder":               "エンコーダ",
		"Output":                "出力",
		"Frames Submitted":      "投入フレーム",
		"Packets Written":       "書き込みパケット",
		"Packets Flushed":       "フラッシュパケット",
		"No Packet Yet":         "パケット未出力",

		// Snapshot and container sections
		"Snapshots":        "スナップショット",
		"Timestamp":        "タイムスタンプ",
		"File":             "ファイル",
		"File Size":        "ファイルサイズ",
		"Output Container": "出力コンテナ",
		"Major Brand":      "メジャーブランド",
		"Fragmented":       "フラグメント",
		"Track":            "トラック",
		"Handler":          "ハンドラ",
		"Samples":          "サンプル",
		"Sync Samples":     "同期サンプル",
	})
}
