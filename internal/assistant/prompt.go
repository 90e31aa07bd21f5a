package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/remindly/remindly-server/internal/model"
)

// SystemInstruction describes the assistant's duties. Responses are in Thai
// to match the product's audience.
const SystemInstruction = `
คุณคือผู้ช่วย AI อัจฉริยะสำหรับ "ระบบเตือนความจำ" หน้าที่ของคุณคือวิเคราะห์ข้อมูลรายการของผู้ใช้ และตอบคำถามเป็นภาษาไทย

ข้อมูลที่ได้รับจะเป็น JSON Array ของรายการต่างๆ (Items) ซึ่งประกอบด้วย:
- ชื่อรายการ (Title)
- หมวดหมู่ (Category)
- วันที่ครบกำหนด (DueDate)
- ข้อมูลที่กำหนดเอง (Custom Fields)

ความสามารถของคุณ:
1. วิเคราะห์สถานะ: บอกได้ว่ารายการไหนครบกำหนด, เลยกำหนด (Overdue), หรือใกล้ถึงเวลา
2. คำนวณรอบทั่วไป: คำนวณรอบถัดไปจากข้อมูลเลขไมล์หรือวันที่
3. **การคำนวณสินเชื่อบ้าน/รีไฟแนนซ์**: คำนวณวันครบกำหนด Retention/Refinance (3 ปี)
4. ตรวจสอบข้อมูลไม่ครบ และสรุปภาพรวม

คำแนะนำการตอบ:
- ตอบด้วยน้ำเสียงสุภาพ กระชับ
- เน้นคำสำคัญด้วย **...**
`

// SummaryQuery is the canned monthly-overview question behind SmartSummary.
const SummaryQuery = "ช่วยสรุปภาพรวมงานที่ต้องทำ งานที่ค้าง และงานสำคัญในเดือนนี้ให้หน่อย รวมถึงตรวจสอบรีไฟแนนซ์บ้านด้วย และอย่าลืมเน้นคำสำคัญด้วยเครื่องหมาย **...**"

// itemContext is the flattened view of an item the model receives.
type itemContext struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	DueDate  string `json:"dueDate,omitempty"`
	Status   string `json:"status"`
	Details  string `json:"details"`
}

// BuildPrompt assembles the completion prompt: today's date, the flattened
// item collection, an optional conversation transcript, then the user query.
func BuildPrompt(items []model.ReminderItem, query string, history []model.ChatMessage, today model.Date) string {
	contexts := make([]itemContext, 0, len(items))
	for _, item := range items {
		status := "Pending"
		if item.IsCompleted {
			status = "Completed"
		}
		details := make([]string, 0, len(item.Fields))
		for _, f := range item.Fields {
			details = append(details, fmt.Sprintf("%s: %v", f.Label, f.Value))
		}
		ctx := itemContext{
			Title:    item.Title,
			Category: item.Category,
			Status:   status,
			Details:  strings.Join(details, ", "),
		}
		if item.DueDate != nil {
			ctx.DueDate = item.DueDate.String()
		}
		contexts = append(contexts, ctx)
	}
	itemsJSON, err := json.Marshal(contexts)
	if err != nil {
		itemsJSON = []byte("[]")
	}

	var transcript string
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, m := range history {
			speaker := "AI"
			if m.Role == "user" {
				speaker = "User"
			}
			lines = append(lines, speaker+": "+m.Text)
		}
		transcript = "\n[ประวัติการสนทนา]\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`[บริบทข้อมูลปัจจุบัน (วันนี้: %s)]
รายการทั้งหมดในระบบ:
%s%s

[คำถามของผู้ใช้]
%s`, today.String(), itemsJSON, transcript, query)
}
