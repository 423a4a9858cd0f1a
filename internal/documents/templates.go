package documents

import "html/template"

var offerTemplate = template.Must(template.New("offer").Parse(`<!doctype html><html dir="rtl" lang="ar"><head><meta charset="utf-8"/>
<title>عقد استئجار مساحات إعلانية</title>
<style>
  @page { size: A4; margin: 14mm; }
  body{font-family:'Cairo','Tajawal',system-ui,sans-serif;color:#111}
  .header{display:flex;justify-content:space-between;align-items:center;border-bottom:2px solid #d4af37;padding-bottom:8px;margin-bottom:12px}
  .brand h1{margin:0;font-size:22px;font-weight:800}
  .gold{color:#b8860b}
  table{width:100%;border-collapse:collapse;margin-top:8px}
  th,td{border:1px solid #eee;padding:8px;text-align:right}
  th{background:#faf6e8;font-weight:800}
  .box{border:1px solid #eee;border-radius:10px;padding:12px;margin:8px 0}
  .footer{display:flex;justify-content:space-between;align-items:center;margin-top:10px}
  img.board{height:40px;border-radius:6px}
</style></head><body>
  <div class="header">
    <div class="brand">
      <h1>عقد استئجار مساحات إعلانية</h1>
      <div class="gold">{{.Company.Name}}</div>
      <div class="gold">{{.Company.Address}}</div>
    </div>
    <div>
      <div>التاريخ: {{.Date}}</div>
      <div>رقم العقد: {{.ContractNumber}}</div>
      <div>نوع الإعلان: {{.AdType}}</div>
    </div>
  </div>

  {{if .ClientName}}<div class="box">
    <p>الطرف الثاني: {{.ClientName}}{{if .ClientRep}} — يمثلها {{.ClientRep}}{{end}}{{if .ClientPhone}} — هاتف {{.ClientPhone}}{{end}}</p>
  </div>{{end}}

  <div class="box">
    <p>نظراً لرغبة الطرف الثاني في استئجار مساحات إعلانية من الطرف الأول، تم الاتفاق على الشروط التالية.</p>
    <p>قيمة العقد {{.Total}} بدون طباعة؛ تُدفع نصف القيمة عند توقيع العقد والنصف الآخر بعد التركيب، وإذا تأخر السداد عن 30 يوماً يحق للطرف الأول إعادة تأجير المساحات.</p>
    <p>مدة العقد {{.Period}} تبدأ من {{.StartDate}} وتنتهي في {{.EndDate}} ويجوز تجديده برضى الطرفين.</p>
  </div>

  <table>
    <thead>
      <tr>
        <th>رقم اللوحة</th>
        <th>صورة اللوحة</th>
        <th>المدينة</th>
        <th>البلدية</th>
        <th>أقرب نقطة دالة</th>
        <th>المقاس</th>
        <th>عدد الأوجه</th>
        <th>السعر</th>
        <th>تاريخ الانتهاء</th>
        <th>إحداثي اللوحة</th>
      </tr>
    </thead>
    <tbody>
    {{range .Rows}}<tr>
      <td>{{.Code}}</td>
      <td>{{if .ImageURL}}<img class="board" src="{{.ImageURL}}"/>{{end}}</td>
      <td>{{.City}}</td>
      <td>{{.Municipality}}</td>
      <td>{{.Landmark}}</td>
      <td>{{.Size}}</td>
      <td>{{.Faces}}</td>
      <td>{{.Price}}</td>
      <td>{{.EndDate}}</td>
      <td><a href="{{.MapURL}}">اضغط هنا</a></td>
    </tr>
    {{end}}</tbody>
  </table>

  <div class="footer">
    <div>IBAN: <strong>{{.Company.IBAN}}</strong></div>
    <div>الطرف الأول: {{.Company.Representative}}</div>
  </div>
</body></html>`))

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!doctype html>
<html lang="ar" dir="rtl"><head>
  <meta charset="utf-8" />
  <title>فاتورة اللوحات</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body{font-family:'Cairo','Tajawal',system-ui,sans-serif;color:#111}
    .container{max-width:1100px;margin:24px auto;padding:16px}
    .header{display:flex;justify-content:space-between;align-items:center;margin-bottom:12px}
    .title{font-weight:800;font-size:26px;letter-spacing:.5px}
    table{width:100%;border-collapse:collapse}
    th{background:#f7f3e3;color:#000;padding:10px 8px;text-align:right;border-bottom:2px solid #e6d698;font-weight:700}
    td.cell{padding:8px;border-bottom:1px solid #eee;text-align:right;vertical-align:middle}
    .thumb{height:64px;border-radius:8px}
    tfoot td{font-weight:700}
    .meta{color:#666;font-size:12px}
  </style>
</head><body>
  <div class="container">
    <div class="header">
      <div class="title">فاتورة اللوحات المختارة</div>
      <div class="meta">التاريخ: {{.Date}}</div>
    </div>
    <table>
      <thead>
        <tr>
          <th>رقم اللوحة</th>
          <th>صورة اللوحة</th>
          <th>البلدية</th>
          <th>المنطقة</th>
          <th>أقرب نقطة دالة</th>
          <th>المقاس</th>
          <th>عدد الأوجه</th>
          <th>السعر</th>
          <th>تاريخ الإنتهاء</th>
          <th>الحالة</th>
        </tr>
      </thead>
      <tbody>
      {{range .Rows}}<tr>
        <td class="cell">{{.Code}}</td>
        <td class="cell">{{if .ImageURL}}<img src="{{.ImageURL}}" class="thumb" />{{end}}</td>
        <td class="cell">{{.Municipality}}</td>
        <td class="cell">{{.District}}</td>
        <td class="cell">{{.Landmark}}</td>
        <td class="cell">{{.SizeLevel}}</td>
        <td class="cell">{{.Faces}}</td>
        <td class="cell">{{.Price}}</td>
        <td class="cell">{{.Expiry}}</td>
        <td class="cell">{{.Status}}</td>
      </tr>
      {{end}}</tbody>
      <tfoot>
        <tr>
          <td colspan="9" style="padding:8px;text-align:left">الإجمالي الكلي</td>
          <td style="padding:8px;text-align:right">{{.Total}}</td>
        </tr>
      </tfoot>
    </table>
  </div>
</body></html>`))
