package mdlive

// Status bar messages.
const (
	MsgRestored       = "已恢复上次编辑内容"
	MsgRestoreFailed  = "恢复内容失败"
	MsgSaved          = "自动保存成功"
	MsgSaveFailed     = "自动保存失败"
	MsgRenderFailed   = "预览渲染失败"
	MsgImported       = "文件导入成功"
	MsgImportFailed   = "文件读取失败"
	MsgExported       = "PDF导出成功"
	MsgExportFailed   = "PDF导出失败"
	MsgCleared        = "内容已清空"
	MsgCopied         = "Markdown已复制到剪贴板"
	MsgCopyFailed     = "复制失败"
	MsgNothingToCopy  = "没有内容可复制"
	PromptClear       = "确定要清空所有内容吗？此操作不可恢复。"
	PromptLeave       = "您有未保存的更改，确定要离开吗？"
)
