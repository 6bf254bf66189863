package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting %s pipeline":                   "%s パイプラインを開始します",
		"Opening %s":                             "%s を開いています",
		"Selected video stream %d (%s, %dx%d)":   "映像ストリーム %d を選択しました (%s, %dx%d)",
		"Re-encoding to %s":                      "%s へ再エンコードします",
		"Keyframe saved: %s":                     "キーフレームを保存しました: %s",
		"Output saved to %s (%d frames)":         "出力を %s に保存しました (%d フレーム)",
		"Extracted %d keyframes from %d packets": "%[2]d パケットから %[1]d 枚のキーフレームを抽出しました",
		"Pipeline completed successfully":        "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":          "中断されました。シャットダウン中...",

		// Recoverable failures (warn)
		"Failed to decode packet of stream %d: %v": "ストリーム %d のパケットのデコードに失敗しました: %v",
		"Failed to encode frame %d: %v":            "フレーム %d のエンコードに失敗しました: %v",
		"Failed to close output: %v":               "出力のクローズに失敗しました: %v",
		"Failed to build contact sheet: %v":        "コンタクトシートの作成に失敗しました: %v",
		"Failed to probe %s: %v":                   "%s の解析に失敗しました: %v",
		"No output from encoder for frame %d":      "フレーム %d のエンコーダ出力はまだありません",

		// Media library (debug)
		"FFmpeg libraries initialized":                            "FFmpeg ライブラリを初期化しました",
		"Opened %s with %d streams":                               "%s を開きました (%d ストリーム)",
		"Opened %s decoder for stream %d: %dx%d %s, time base %s": "ストリーム %[2]d の %[1]s デコーダを開きました: %[3]dx%[4]d %[5]s, タイムベース %[6]s",
		"Configuring %s encoder: %dx%d %s, time base %s, %d bps":  "%s エンコーダを設定中: %dx%d %s, タイムベース %s, %d bps",
		"Opened output %s (%s muxer)":                             "出力 %s を開きました (%s マクサ)",
		"Added %s stream %d: %dx%d %s, %d bps":                    "%s ストリーム %d を追加しました: %dx%d %s, %d bps",
		"Output header written to %s":                             "%s にヘッダを書き込みました",
		"Output finalized: %d frames, %d packets (%d flushed)":    "出力を確定しました: %d フレーム, %d パケット (フラッシュ %d)",
		"Input stream %d: %s (%s)":                                "入力ストリーム %d: %s (%s)",
		"Skipping unreadable packet: %v":                          "読み取れないパケットをスキップします: %v",
		"No frame from decoder yet":                               "デコーダからのフレームはまだありません",
		"Snapshot saved: %s (%dx%d, %d bytes)":                    "スナップショットを保存しました: %s (%dx%d, %d バイト)",
		"Building contact sheet of %d snapshots with %d workers":  "%d 枚のスナップショットから %d ワーカーでコンタクトシートを作成中",
		"Contact sheet built: %dx%d, %d rows":                     "コンタクトシート作成完了: %dx%d, %d 行",
		"Failed to write summary: %v":                             "サマリの書き込みに失敗しました: %v",
		"Summary written to %s":                                   "サマリを %s に書き込みました",
		"Debug outputs saved to %s":                               "デバッグ出力を %s に保存しました",
	})
}
